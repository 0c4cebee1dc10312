package token

import (
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestBalance(t *testing.T) {
	convey.Convey("balance", t, func() {
		convey.Convey("pairs nested brackets", func() {
			toks, err := Scan([]byte(`x = [1, {a = (2)}]`))
			convey.So(err, convey.ShouldBeNil)
			convey.So(toks[2].Type, convey.ShouldEqual, TLSquare)
			closeAt := toks[2].Pair
			convey.So(closeAt, convey.ShouldEqual, len(toks)-1)
			convey.So(toks[closeAt].Pair, convey.ShouldEqual, 2)
		})
		convey.Convey("splits a fold close ending a paren", func() {
			toks, err := Scan([]byte(`<( (1)> 0 )>`))
			convey.So(err, convey.ShouldBeNil)
			got := simplify(toks)
			convey.So(got, convey.ShouldResemble, []tt{
				{TFoldOpen, "<("}, {TLParen, "("}, {TInteger, "1"}, {TRParen, ")"},
				{TOp, ">"}, {TInteger, "0"}, {TFoldClose, ")>"},
			})
			convey.So(toks[0].Pair, convey.ShouldEqual, 6)
			convey.So(toks[1].Pair, convey.ShouldEqual, 3)
		})
		convey.Convey("splits a fold open inside a fold", func() {
			toks, err := Scan([]byte(`<( 1 <(2) )>`))
			convey.So(err, convey.ShouldBeNil)
			got := simplify(toks)
			convey.So(got, convey.ShouldResemble, []tt{
				{TFoldOpen, "<("}, {TInteger, "1"}, {TOp, "<"}, {TLParen, "("},
				{TInteger, "2"}, {TRParen, ")"}, {TFoldClose, ")>"},
			})
		})
		convey.Convey("rejects a stray closer", func() {
			_, err := Scan([]byte("x = 1]"))
			convey.So(errors.Is(err, ErrUnexpectedToken), convey.ShouldBeTrue)
			convey.So(errors.Is(err, ErrDocBalance), convey.ShouldBeTrue)
		})
		convey.Convey("rejects a mismatched closer", func() {
			_, err := Scan([]byte("x = [1}"))
			convey.So(errors.Is(err, ErrUnexpectedToken), convey.ShouldBeTrue)
		})
		convey.Convey("rejects an unclosed opener", func() {
			_, err := Scan([]byte("x = [1,\n2"))
			convey.So(errors.Is(err, ErrUnexpectedEOF), convey.ShouldBeTrue)
		})
	})
}
