package lang

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

// FuzzParse checks that Parse never panics, that failures are always
// *ParseError values, and that every successful parse survives a
// Format/Parse round trip with identical metrics.
func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"{}",
		"<>",
		"{{<!>},{<!>},{<!>},{<a>}}",
		"{{<a!>},{<a!>},{<a!>},{<ab>}}",
		`<{o"i!a,<{i<a>`,
		"{<ab>,{<cde>},<>}",
		"{\n\t{<ünï©ødé>}\n}",
		"<!",
		"{<",
		"x{}",
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		node, err := Parse(context.Background(), input)
		if err != nil {
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}

			if node != nil {
				t.Fatalf("expected nil node on error")
			}

			return
		}

		var buf bytes.Buffer
		if err := Format(&buf, node, 0); err != nil {
			t.Fatalf("format error: %v", err)
		}

		again, err := Parse(context.Background(), buf.String())
		if err != nil {
			t.Fatalf("reparse of %q failed: %v", buf.String(), err)
		}

		if Measure(node) != Measure(again) {
			t.Fatalf("metrics changed: %+v != %+v", Measure(node), Measure(again))
		}
	})
}
