package mergeop

import "errors"

var ErrNotMapping = errors.New("not a mapping")
