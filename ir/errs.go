package ir

import "errors"

var (
	errInternal = errors.New("internal error")

	ErrNotContainer = errors.New("not a container")
	ErrSpliceRange  = errors.New("splice out of range")
	ErrNoValue      = errors.New("no value")
)
