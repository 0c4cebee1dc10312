package encode

import "github.com/signadot/jaml/format"

type EncodeOption func(*EncState)

func EncodeFormat(f format.Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

// FormatFromOpts extracts the format from encode options.
func FormatFromOpts(opts ...EncodeOption) format.Format {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es.format
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c != nil {
			es.Color = c.Color
		}
	}
}

// EncodeIndent sets the indentation of multi-line arrays written in
// canonical form when it cannot be taken from the source.
func EncodeIndent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}
