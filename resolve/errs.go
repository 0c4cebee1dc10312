package resolve

import "errors"

var (
	ErrTypeMismatch = errors.New("type mismatch")
	ErrHeaderName   = errors.New("bad section name")
)
