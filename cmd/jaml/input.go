package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/jaml/format"
)

// input is one source read from a file or stdin.
type input struct {
	name string
	src  []byte
}

// readInputs reads files, or in when there are none. "-" is stdin.
func readInputs(in io.Reader, files []string) ([]input, error) {
	if len(files) == 0 {
		files = []string{"-"}
	}
	res := make([]input, 0, len(files))
	for _, file := range files {
		if file == "-" {
			d, err := io.ReadAll(in)
			if err != nil {
				return nil, fmt.Errorf("error reading: %w", err)
			}
			res = append(res, input{name: "<stdin>", src: d})
			continue
		}
		if err := format.CheckExtension(file); err != nil {
			return nil, err
		}
		d, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("could not open %q: %w", file, err)
		}
		res = append(res, input{name: file, src: d})
	}
	return res, nil
}

// eachInput calls f on every input, writing a document separator
// between outputs.
func eachInput(w io.Writer, in io.Reader, files []string, f func(input) error) error {
	ins, err := readInputs(in, files)
	if err != nil {
		return err
	}
	for i, x := range ins {
		if err := f(x); err != nil {
			return fmt.Errorf("error processing %s: %w", x.name, err)
		}
		if i < len(ins)-1 {
			if _, err := w.Write([]byte("\n---\n")); err != nil {
				return err
			}
		}
	}
	return nil
}
