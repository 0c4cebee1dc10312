package jaml

import (
	"github.com/signadot/jaml/diag"
	"github.com/signadot/jaml/resolve"
)

type options struct {
	sink    diag.Sink
	globals map[string]any
	strict  bool
}

type Option func(*options)

// WithDiagnostics sets the sink receiving problems found while
// resolving or rendering.
func WithDiagnostics(s diag.Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithGlobals seeds the global tier.
func WithGlobals(g map[string]any) Option {
	return func(o *options) { o.globals = g }
}

// Strict makes Unmarshal reject keys which do not correspond to a
// field.
func Strict() Option {
	return func(o *options) { o.strict = true }
}

func makeOpts(opts []Option) *options {
	o := &options{}
	for _, f := range opts {
		f(o)
	}
	return o
}

func (o *options) resolveOpts(extra ...diag.Sink) []resolve.Option {
	sinks := extra
	if o.sink != nil {
		sinks = append(sinks, o.sink)
	}
	res := []resolve.Option{resolve.WithGlobals(o.globals)}
	switch len(sinks) {
	case 0:
	case 1:
		res = append(res, resolve.WithDiagnostics(sinks[0]))
	default:
		res = append(res, resolve.WithDiagnostics(diag.Tee(sinks...)))
	}
	return res
}
