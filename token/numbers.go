package token

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrNumber = errors.New("bad number")

// ParseInt decodes an integer literal, detecting the base from a 0x, 0o
// or 0b prefix and ignoring '_' separators. A leading sign is allowed.
func ParseInt(s string) (int64, error) {
	lit := strings.ReplaceAll(s, "_", "")
	neg := false
	switch {
	case strings.HasPrefix(lit, "-"):
		neg = true
		lit = lit[1:]
	case strings.HasPrefix(lit, "+"):
		lit = lit[1:]
	}
	base := 10
	if len(lit) > 2 && lit[0] == '0' {
		switch lit[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			lit = lit[2:]
		}
	}
	u, err := strconv.ParseUint(lit, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrNumber, s, err)
	}
	if neg {
		if u > 1<<63 {
			return 0, fmt.Errorf("%w: %q out of range", ErrNumber, s)
		}
		return -int64(u), nil
	}
	if u > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q out of range", ErrNumber, s)
	}
	return int64(u), nil
}

// ParseFloat decodes a float literal including inf and nan.
func ParseFloat(s string) (float64, error) {
	lit := strings.ReplaceAll(s, "_", "")
	sign := 1.0
	body := lit
	switch {
	case strings.HasPrefix(body, "-"):
		sign = -1
		body = body[1:]
	case strings.HasPrefix(body, "+"):
		body = body[1:]
	}
	switch body {
	case "inf":
		return math.Inf(int(sign)), nil
	case "nan":
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrNumber, s, err)
	}
	return sign * f, nil
}
