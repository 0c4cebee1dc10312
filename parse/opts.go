package parse

type parseOpts struct {
	allowDuplicates bool
}

type ParseOption func(*parseOpts)

// AllowDuplicateSections disables the check that plain section names
// are unique. Editors use it to keep working on documents being
// edited.
func AllowDuplicateSections() ParseOption {
	return func(o *parseOpts) { o.allowDuplicates = true }
}
