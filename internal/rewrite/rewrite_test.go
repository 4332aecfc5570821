package rewrite

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const iconBlock = `type iconProps = {
	fill?: string;
	title?: string;
};`

const importLine = "import type { iconProps } from './iconProps';"

func TestStripPrefix(t *testing.T) {
	cases := []struct {
		name, prefix, want string
		ok                 bool
	}{
		{"18px_arrow.tsx", "18px_", "arrow.tsx", true},
		{"arrow.tsx", "18px_", "arrow.tsx", false},
		{"x18px_arrow.tsx", "18px_", "x18px_arrow.tsx", false},
		{"18px_", "18px_", "", true},
		{"arrow.tsx", "", "arrow.tsx", false},
	}
	for _, c := range cases {
		got, ok := StripPrefix(c.name, c.prefix)
		if got != c.want || ok != c.ok {
			t.Errorf("StripPrefix(%q, %q) = %q, %v; want %q, %v", c.name, c.prefix, got, ok, c.want, c.ok)
		}
	}
}

func TestStripSubstrings(t *testing.T) {
	got := StripSubstrings("function I12px_18px_Arrow() { return '12px_'; }", "12px_", "18px_")
	want := "function IArrow() { return ''; }"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInsertImport(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "no imports",
			content: "const a = 1;",
			want:    importLine + "\nconst a = 1;",
		},
		{
			name:    "after last import",
			content: "import React from 'react';\nimport x from './x';\n\nconst a = 1;",
			want:    "import React from 'react';\nimport x from './x';\n" + importLine + "\n\nconst a = 1;",
		},
		{
			name:    "multi-line import",
			content: "import {\n  a,\n  b,\n} from './ab';\nconst c = a + b;",
			want:    "import {\n  a,\n  b,\n} from './ab';\n" + importLine + "\nconst c = a + b;",
		},
		{
			name:    "side effect import",
			content: "import './styles.css'\nconst a = 1;",
			want:    "import './styles.css'\n" + importLine + "\nconst a = 1;",
		},
		{
			name:    "identifier starting with import is not an import",
			content: "importantThing();",
			want:    importLine + "\nimportantThing();",
		},
		{
			name:    "crlf line endings",
			content: "import a from 'a';\r\nconst x = 1;\r\n",
			want:    "import a from 'a';\r\n" + importLine + "\r\nconst x = 1;\r\n",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if diff := cmp.Diff(c.want, InsertImport(c.content, importLine)); diff != "" {
				t.Errorf("InsertImport mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReplaceLiteralBlock(t *testing.T) {
	content := "import React from 'react';\n\n" + iconBlock + "\n\nfunction Arrow(props: iconProps) {}\n"
	got, ok := ReplaceLiteralBlock(content, iconBlock, importLine)
	if !ok {
		t.Fatal("expected block to be replaced")
	}
	want := "import React from 'react';\n" + importLine + "\n\n\n\nfunction Arrow(props: iconProps) {}\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	unchanged, ok := ReplaceLiteralBlock("const a = 1;", iconBlock, importLine)
	if ok || unchanged != "const a = 1;" {
		t.Errorf("content without block should be untouched, got %q, %v", unchanged, ok)
	}
}

func TestReplaceBlockPattern(t *testing.T) {
	re := regexp.MustCompile(DefaultBlockPattern)

	content := "type iconProps   =  {\n  fill?: string;\n};\nfunction A() {}"
	got, ok := ReplaceBlockPattern(content, re, importLine)
	if !ok {
		t.Fatal("expected a match")
	}
	if want := importLine + "\n\nfunction A() {}"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// The non-greedy body stops at the first closing brace.
	nested := "type iconProps = {\n  style?: { color: string };\n  fill?: string;\n};"
	got, ok = ReplaceBlockPattern(nested, re, importLine)
	if !ok {
		t.Fatal("expected a match on nested braces")
	}
	if want := importLine + "\n\n  fill?: string;\n};"; got != want {
		t.Errorf("nested braces: got %q, want %q", got, want)
	}
}

func TestExportAlias(t *testing.T) {
	cases := map[string]string{
		"arrow-left-I12px.tsx": "arrowLeftI12px",
		"Arrow-I12px.tsx":      "ArrowI12px",
		"arrow.tsx":            "arrow",
		"a--b.tsx":             "aB",
		"chevron-upDown.tsx":   "chevronUpDown",
	}
	for in, want := range cases {
		if got := ExportAlias(in); got != want {
			t.Errorf("ExportAlias(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExportLine(t *testing.T) {
	got := ExportLine("arrowLeftI12px", "arrow-left-I12px.tsx")
	want := "export { default as arrowLeftI12px } from './arrow-left-I12px';"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSizeSuffixName(t *testing.T) {
	cases := []struct {
		in, want string
		ok       bool
	}{
		{"I12Px_Arrow.tsx", "Arrow-I12px.tsx", true},
		{"I18Px_ArrowLeft.tsx", "ArrowLeft-I18px.tsx", true},
		{"I12Px_a.b.tsx", "a.b-I12px.tsx", true},
		{"I12Px_Arrow", "Arrow-I12px", true},
		{"Arrow-I12px.tsx", "Arrow-I12px.tsx", false},
		{"I12px_Arrow.tsx", "I12px_Arrow.tsx", false},
	}
	for _, c := range cases {
		got, ok := SizeSuffixName(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("SizeSuffixName(%q) = %q, %v; want %q, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestPrefixIdentifiers(t *testing.T) {
	const prefix = "I18px_"
	cases := []struct {
		name, in, want string
	}{
		{
			name: "function and default export",
			in:   "function Arrow(props) {}\nexport default Arrow;",
			want: "function I18px_Arrow(props) {}\nexport default I18px_Arrow;",
		},
		{
			name: "already prefixed",
			in:   "function I18px_Arrow(props) {}\nexport default I18px_Arrow;",
			want: "function I18px_Arrow(props) {}\nexport default I18px_Arrow;",
		},
		{
			name: "export default function",
			in:   "export default function Arrow() {}",
			want: "export default function I18px_Arrow() {}",
		},
		{
			name: "anonymous function is left alone",
			in:   "const f = function (x) { return x; };",
			want: "const f = function (x) { return x; };",
		},
		{
			name: "word containing function",
			in:   "myfunction Arrow",
			want: "myfunction Arrow",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := PrefixIdentifiers(c.in, prefix)
			if err != nil {
				t.Fatalf("PrefixIdentifiers: %v", err)
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrefixIdentifiersIsIdempotent(t *testing.T) {
	in := "function Arrow() {}\nfunction Helper() {}\nexport default Arrow;\n"
	once, err := PrefixIdentifiers(in, "I12px_")
	if err != nil {
		t.Fatal(err)
	}
	twice, err := PrefixIdentifiers(once, "I12px_")
	if err != nil {
		t.Fatal(err)
	}
	if once != twice {
		t.Errorf("second pass changed content:\n%s\n---\n%s", once, twice)
	}
}

func TestPrefixWithDollar(t *testing.T) {
	got, err := PrefixIdentifiers("function Arrow() {}", "$x_")
	if err != nil {
		t.Fatal(err)
	}
	if got != "function $x_Arrow() {}" {
		t.Errorf("got %q", got)
	}
}

func TestNewPrefixerRejectsEmpty(t *testing.T) {
	if _, err := NewPrefixer(""); err == nil {
		t.Error("expected error for empty prefix")
	}
}
