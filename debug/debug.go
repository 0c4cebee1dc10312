package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Scan          bool
	Parse         bool
	Resolve       bool
	Render        bool
	Eval          bool
	Comprehension bool
	Diag          bool
	LoadEnv       bool
	LSP           bool
}

var d *debug

func init() {
	d = &debug{}
	d.Scan = boolEnv("JAML_DEBUG_SCAN")
	d.Parse = boolEnv("JAML_DEBUG_PARSE")
	d.Resolve = boolEnv("JAML_DEBUG_RESOLVE")
	d.Render = boolEnv("JAML_DEBUG_RENDER")
	d.Eval = boolEnv("JAML_DEBUG_EVAL")
	d.Comprehension = boolEnv("JAML_DEBUG_COMPREHENSION")
	d.Diag = boolEnv("JAML_DEBUG_DIAG")
	d.LoadEnv = boolEnv("JAML_DEBUG_LOAD_ENV")
	d.LSP = boolEnv("JAML_DEBUG_LSP")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Scan() bool {
	return d.Scan
}
func Parse() bool {
	return d.Parse
}
func Resolve() bool {
	return d.Resolve
}
func Render() bool {
	return d.Render
}
func Eval() bool {
	return d.Eval
}
func Comprehension() bool {
	return d.Comprehension
}
func Diag() bool {
	return d.Diag
}
func LoadEnv() bool {
	return d.LoadEnv
}
func LSP() bool {
	return d.LSP
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
	os.Stderr.Write([]byte{'\n'})
}
