// Package token provides tokenization support for JAML.
//
// [Tokenize] applies an ordered list of scanning rules to produce a token
// sequence; the first rule that matches at a position wins. Whitespace is
// dropped, newlines and comments are kept since the grammar is line
// oriented and layout is reconstructed from token positions.
//
// [Balance] pairs brackets so that every bracketed construct can be
// addressed as an opaque span by later stages.
package token
