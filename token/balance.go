package token

import (
	"fmt"

	"github.com/signadot/jaml/debug"
)

// Balance pairs every opening bracket with its closer, setting Pair on
// both. Fold delimiters are disambiguated on the way: a ')>' closing a
// plain '(' is split into ')' and the operator '>', and a '<(' found
// inside a fold is split into '<' and '('.
func Balance(toks []Token) ([]Token, error) {
	dst := make([]Token, 0, len(toks))
	var stack []int
	folds := 0
	for i := range toks {
		tok := toks[i]
		tok.Pair = -1
		switch {
		case tok.Type == TFoldOpen && folds > 0:
			lt, lp := splitTok(&tok, 1, TOp, TLParen)
			dst = append(dst, lt)
			stack = append(stack, len(dst))
			dst = append(dst, lp)
			continue
		case tok.Type == TFoldClose && len(stack) > 0 && dst[stack[len(stack)-1]].Type == TLParen:
			rp, gt := splitTok(&tok, 1, TRParen, TOp)
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			rp.Pair = open
			dst[open].Pair = len(dst)
			dst = append(dst, rp, gt)
			continue
		case tok.Type.IsOpen():
			if tok.Type == TFoldOpen {
				folds++
			}
			stack = append(stack, len(dst))
			dst = append(dst, tok)
			continue
		case tok.Type.IsClose():
			if len(stack) == 0 {
				return nil, unbalanced(&tok, "unopened %s", tok.Bytes)
			}
			open := stack[len(stack)-1]
			if closerOf(dst[open].Type) != tok.Type {
				return nil, unbalanced(&tok, "%s closes %s", tok.Bytes, dst[open].Pos)
			}
			stack = stack[:len(stack)-1]
			if tok.Type == TFoldClose {
				folds--
			}
			tok.Pair = open
			dst[open].Pair = len(dst)
			dst = append(dst, tok)
			continue
		}
		dst = append(dst, tok)
	}
	if len(stack) != 0 {
		open := &dst[stack[len(stack)-1]]
		var end *Pos
		if open.Pos != nil {
			end = open.Pos.D.end()
		}
		return nil, &SyntaxError{
			Kind: UnexpectedEOF,
			Pos:  end,
			Msg:  fmt.Sprintf("unclosed %s %s", open.Bytes, open.Pos),
			Err:  ErrDocBalance,
		}
	}
	if debug.Scan() {
		PrintTokens(dst, "balanced")
	}
	return dst, nil
}

func splitTok(tok *Token, at int, a, b TokenType) (Token, Token) {
	first := Token{Type: a, Pos: tok.Pos, Bytes: tok.Bytes[:at], Pair: -1}
	second := Token{Type: b, Bytes: tok.Bytes[at:], Pair: -1}
	if tok.Pos != nil {
		second.Pos = tok.Pos.D.Pos(tok.Pos.I + at)
	}
	return first, second
}

func unbalanced(tok *Token, format string, args ...any) error {
	return &SyntaxError{
		Kind: UnexpectedToken,
		Pos:  tok.Pos,
		Msg:  fmt.Sprintf(format, args...),
		Err:  ErrDocBalance,
	}
}

// Scan tokenizes and balances d.
func Scan(d []byte) ([]Token, error) {
	toks, err := Tokenize(d)
	if err != nil {
		return nil, err
	}
	return Balance(toks)
}
