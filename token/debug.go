package token

import (
	"fmt"
	"os"
)

func PrintTokens(toks []Token, msg string) {
	fmt.Fprintf(os.Stderr, "%s tokens:\n", msg)
	for i := range toks {
		t := &toks[i]
		fmt.Fprintf(os.Stderr, "\t%s `%s` pair=%d %s\n", t.Type, t.Bytes, t.Pair, t.Pos)
	}
}
