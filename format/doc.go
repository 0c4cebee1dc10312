// Package format names the output formats of rendered documents and
// recognizes JAML file names.
//
// # Usage
//
//	f, err := format.ParseFormat("yaml")
//	if err := format.CheckExtension("app.jaml"); err != nil {
//	    ...
//	}
//
// # Related Packages
//
//   - github.com/signadot/jaml/encode - Encode documents and data
package format
