package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Format int

const (
	JAMLFormat Format = iota
	YAMLFormat
	JSONFormat
	HCLFormat
)

var (
	ErrBadFormat    = errors.New("bad format")
	ErrBadExtension = errors.New("bad file extension")
)

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"j":    JAMLFormat,
		"jml":  JAMLFormat,
		"jaml": JAMLFormat,
		"y":    YAMLFormat,
		"yaml": YAMLFormat,
		"json": JSONFormat,
		"h":    HCLFormat,
		"hcl":  HCLFormat,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case JAMLFormat:
		return []byte("jaml"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	case JSONFormat:
		return []byte("json"), nil
	case HCLFormat:
		return []byte("hcl"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsJAML() bool { return f == JAMLFormat }
func (f Format) IsYAML() bool { return f == YAMLFormat }
func (f Format) IsJSON() bool { return f == JSONFormat }
func (f Format) IsHCL() bool  { return f == HCLFormat }

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix() string {
	switch f {
	case JAMLFormat:
		return ".jaml"
	case YAMLFormat:
		return ".yaml"
	case JSONFormat:
		return ".json"
	case HCLFormat:
		return ".hcl"
	default:
		return ""
	}
}

// AllFormats returns all supported formats in preference order.
func AllFormats() []Format {
	return []Format{JAMLFormat, YAMLFormat, JSONFormat, HCLFormat}
}

// Extensions are the suffixes of JAML source files.
var Extensions = []string{".jml", ".jaml"}

// CheckExtension accepts only JAML file names.
func CheckExtension(name string) error {
	ext := filepath.Ext(name)
	for _, e := range Extensions {
		if ext == e {
			return nil
		}
	}
	if ext == "" {
		return fmt.Errorf("%w: %q has none, want %s", ErrBadExtension, name, strings.Join(Extensions, " or "))
	}
	return fmt.Errorf("%w: %q, want %s", ErrBadExtension, ext, strings.Join(Extensions, " or "))
}

// FromPath guesses the format of a data file from its name.
func FromPath(name string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "yml" {
		ext = "yaml"
	}
	return ParseFormat(ext)
}
