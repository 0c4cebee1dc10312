package scope

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrNoContext = errors.New("context unavailable")
)

type NotFoundError struct {
	Tier Tier
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%c{%s} %s in %s scope", e.Tier.Sigil(), e.Path, ErrNotFound, e.Tier)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
