package token

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FlavorOf returns the flavor of the quoted literal s from its opening
// delimiter.
func FlavorOf(s string) Flavor {
	switch {
	case strings.HasPrefix(s, `"""`):
		return TripleDouble
	case strings.HasPrefix(s, `'''`):
		return TripleSingle
	case strings.HasPrefix(s, "```"):
		return TripleBacktick
	case strings.HasPrefix(s, `"`):
		return DoubleQuoted
	case strings.HasPrefix(s, `'`):
		return SingleQuoted
	case strings.HasPrefix(s, "`"):
		return Backtick
	}
	return NoFlavor
}

// Unquote decodes the quoted literal s. Escapes are only decoded for
// double quoted flavors, and a newline directly after a triple quote
// opener is dropped.
func Unquote(s string) (string, Flavor, error) {
	f := FlavorOf(s)
	if f == NoFlavor {
		return "", f, fmt.Errorf("%w: %q is not quoted", ErrUnterminated, s)
	}
	delim := f.delim()
	if len(s) < 2*len(delim) || !strings.HasSuffix(s, delim) {
		return "", f, fmt.Errorf("%w: %q", ErrUnterminated, s)
	}
	body := s[len(delim) : len(s)-len(delim)]
	if len(delim) == 3 {
		switch {
		case strings.HasPrefix(body, "\r\n"):
			body = body[2:]
		case strings.HasPrefix(body, "\n"):
			body = body[1:]
		}
	}
	if !f.Escapes() {
		return body, f, nil
	}
	res, err := unescape(body)
	return res, f, err
}

func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	b := &strings.Builder{}
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case '0':
			b.WriteByte(0)
		case 'u', 'U':
			n := 4
			if s[i] == 'U' {
				n = 8
			}
			if i+n >= len(s) {
				return "", fmt.Errorf("%w: short \\%c escape", ErrBadUnicode, s[i])
			}
			v, err := strconv.ParseUint(s[i+1:i+1+n], 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				return "", fmt.Errorf("%w: \\%c%s", ErrBadUnicode, s[i], s[i+1:i+1+n])
			}
			b.WriteRune(rune(v))
			i += n
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}

// Quote returns s as a double quoted literal which Unquote maps back to
// s.
func Quote(s string) string {
	b := &strings.Builder{}
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if unicode.IsControl(r) {
				fmt.Fprintf(b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
