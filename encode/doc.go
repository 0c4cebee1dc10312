// Package encode writes documents back to text.
//
// An untouched document is written exactly as it was parsed. Resolved
// and synthetic nodes are written in canonical form.
//
// # Usage
//
//	doc, err := parse.Parse(src)
//	err = resolve.Resolve(doc)
//	err = encode.Encode(doc, os.Stdout, encode.EncodeColors(encode.NewColors()))
//
//	// plain data in other formats
//	err = encode.EncodeData(data, os.Stdout, encode.EncodeFormat(format.YAMLFormat))
//
// # Related Packages
//
//   - github.com/signadot/jaml/ir - Document model
//   - github.com/signadot/jaml/parse - Parse text to documents
package encode
