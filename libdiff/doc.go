// Package libdiff compares documents, either as text or as data.
package libdiff
