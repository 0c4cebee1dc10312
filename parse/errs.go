package parse

import (
	"errors"
)

var (
	errInternal = errors.New("internal parse error")

	ErrDuplicateSection = errors.New("duplicate section")
	ErrBadKey           = errors.New("bad key")
	ErrBadValue         = errors.New("bad value")
)
