package main

import (
	"context"
	"strings"

	"github.com/signadot/jaml/token"
	"go.lsp.dev/protocol"
)

// tokenTypes and tokenModifiers make up the legend sent in Initialize.
var (
	tokenTypes = []protocol.SemanticTokenTypes{
		protocol.SemanticTokenComment,
		protocol.SemanticTokenKeyword,
		protocol.SemanticTokenString,
		protocol.SemanticTokenNumber,
		protocol.SemanticTokenOperator,
		protocol.SemanticTokenProperty,
		protocol.SemanticTokenNamespace,
		protocol.SemanticTokenVariable,
		protocol.SemanticTokenFunction,
	}
	tokenModifiers = []protocol.SemanticTokenModifiers{
		protocol.SemanticTokenModifierDefinition,
		protocol.SemanticTokenModifierReadonly,
	}
)

func legend() protocol.SemanticTokensLegend {
	return protocol.SemanticTokensLegend{
		TokenTypes:     tokenTypes,
		TokenModifiers: tokenModifiers,
	}
}

type semToken struct {
	line, char, length uint32
	typ                int
	mods               uint32
}

const (
	modDefinition = 1 << iota
	modReadonly
)

func typeIndex(t protocol.SemanticTokenTypes) int {
	for i, tt := range tokenTypes {
		if tt == t {
			return i
		}
	}
	return 0
}

// classify maps toks[i] to a token type and modifiers, reporting false
// for tokens which are not highlighted. header is set while scanning a
// section header line.
func classify(toks []token.Token, i int, header bool) (protocol.SemanticTokenTypes, uint32, bool) {
	t := &toks[i]
	switch t.Type {
	case token.TComment:
		return protocol.SemanticTokenComment, 0, true
	case token.TInteger, token.TFloat:
		return protocol.SemanticTokenNumber, 0, true
	case token.TBool, token.TNull, token.TKeyword:
		return protocol.SemanticTokenKeyword, 0, true
	case token.TString, token.TMString, token.TBacktick, token.TFString:
		return protocol.SemanticTokenString, 0, true
	case token.TGlobalVar, token.TContextVar:
		return protocol.SemanticTokenVariable, modReadonly, true
	case token.TLocalVar:
		return protocol.SemanticTokenVariable, 0, true
	case token.TFoldOpen, token.TFoldClose, token.TOp, token.TAssign:
		return protocol.SemanticTokenOperator, 0, true
	case token.TIdent:
		switch {
		case header:
			return protocol.SemanticTokenNamespace, modDefinition, true
		case isKey(toks, i):
			return protocol.SemanticTokenProperty, modDefinition, true
		case i+1 < len(toks) && toks[i+1].Type == token.TLParen:
			return protocol.SemanticTokenFunction, 0, true
		}
		return protocol.SemanticTokenVariable, 0, true
	}
	return "", 0, false
}

// isKey reports whether the dotted name starting at toks[i] is followed
// by "=" or a type annotation.
func isKey(toks []token.Token, i int) bool {
	for i++; i < len(toks); i++ {
		switch toks[i].Type {
		case token.TDot, token.TIdent, token.TString:
		case token.TAssign, token.TColon:
			return true
		default:
			return false
		}
	}
	return false
}

func collectSemanticTokens(content string) []semToken {
	toks, err := token.Tokenize([]byte(content))
	if err != nil {
		return nil
	}
	var res []semToken
	header, lineStart := false, true
	for i := range toks {
		t := &toks[i]
		switch {
		case t.Type == token.TNewline:
			header, lineStart = false, true
			continue
		case lineStart && t.Type == token.TLSquare:
			header = true
		}
		lineStart = false
		typ, mods, ok := classify(toks, i, header)
		if !ok {
			continue
		}
		line, col := t.Pos.LineCol()
		start := t.Start() - col
		// tokens may not span lines
		for j, part := range strings.Split(t.Text(), "\n") {
			char := 0
			if j == 0 {
				char = utf16Len(content[start:t.Start()])
			}
			if part != "" {
				res = append(res, semToken{
					line:   uint32(line + j),
					char:   uint32(char),
					length: uint32(utf16Len(part)),
					typ:    typeIndex(typ),
					mods:   mods,
				})
			}
		}
	}
	return res
}

// encodeTokens produces the relative encoding of toks, which are in
// document order.
func encodeTokens(toks []semToken) []uint32 {
	data := make([]uint32, 0, 5*len(toks))
	var prevLine, prevChar uint32
	for _, t := range toks {
		deltaLine := t.line - prevLine
		deltaChar := t.char
		if deltaLine == 0 {
			deltaChar = t.char - prevChar
		}
		data = append(data, deltaLine, deltaChar, t.length, uint32(t.typ), t.mods)
		prevLine, prevChar = t.line, t.char
	}
	return data
}

func (s *Server) SemanticTokensFull(ctx context.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}
	return &protocol.SemanticTokens{
		Data: encodeTokens(collectSemanticTokens(doc.content)),
	}, nil
}

func (s *Server) SemanticTokensRange(ctx context.Context, params *protocol.SemanticTokensRangeParams) (*protocol.SemanticTokens, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}
	r := params.Range
	var toks []semToken
	for _, t := range collectSemanticTokens(doc.content) {
		if t.line >= r.Start.Line && t.line <= r.End.Line {
			toks = append(toks, t)
		}
	}
	return &protocol.SemanticTokens{Data: encodeTokens(toks)}, nil
}
