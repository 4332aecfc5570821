package nvim

import (
	"reflect"
	"testing"
)

func TestSplitLines(t *testing.T) {
	cases := []struct {
		in    string
		lines []string
		eol   bool
	}{
		{"", []string{""}, false},
		{"a\nb\n", []string{"a", "b"}, true},
		{"a\nb", []string{"a", "b"}, false},
		{"\n", []string{""}, true},
	}
	for _, c := range cases {
		lines, eol := splitLines(c.in)
		if !reflect.DeepEqual(lines, c.lines) || eol != c.eol {
			t.Errorf("splitLines(%q) = %q, %v; want %q, %v", c.in, lines, eol, c.lines, c.eol)
		}
	}
}

func TestEscapePath(t *testing.T) {
	got := escapePath("/tmp/my icons/100%#1.tsx")
	want := `/tmp/my\ icons/100\%\#1.tsx`
	if got != want {
		t.Errorf("escapePath = %q, want %q", got, want)
	}
}
