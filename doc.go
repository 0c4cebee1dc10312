// Package jaml reads, edits, resolves and renders JAML documents.
//
// A document is first parsed with layout preserved. Resolving it
// computes every value that depends only on the document itself and
// leaves references to the render context in place, so the resolved
// document can be written out and rendered later with the caller's
// context values.
package jaml
