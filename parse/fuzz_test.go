package parse

import (
	"testing"
)

func FuzzRoundTrip(f *testing.F) {
	for _, s := range roundTrips {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, in string) {
		d, err := Parse([]byte(in), AllowDuplicateSections())
		if err != nil {
			return
		}
		if got := layout(d, d.Root); got != in {
			t.Fatalf("round trip %q gave %q", in, got)
		}
	})
}
