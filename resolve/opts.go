package resolve

import (
	"github.com/signadot/jaml/diag"
)

type resolveOpts struct {
	sink    diag.Sink
	globals map[string]any
	context map[string]any
}

type Option func(*resolveOpts)

// WithDiagnostics sets the sink receiving evaluation problems.
func WithDiagnostics(s diag.Sink) Option {
	return func(o *resolveOpts) { o.sink = s }
}

// WithGlobals seeds the global tier. Document assignments take
// precedence.
func WithGlobals(g map[string]any) Option {
	return func(o *resolveOpts) { o.globals = g }
}

// WithContext makes the context tier available, which is what
// distinguishes rendering from resolving.
func WithContext(ctx map[string]any) Option {
	return func(o *resolveOpts) {
		if ctx == nil {
			ctx = map[string]any{}
		}
		o.context = ctx
	}
}
