package jaml

import "errors"

var (
	ErrBadPath = errors.New("bad path")
)
