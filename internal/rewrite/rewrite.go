// Package rewrite holds the text transformations behind each iconfix task.
// Nothing in here touches the filesystem.
package rewrite

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// DefaultBlockPattern matches an inlined iconProps type declaration. The body
// match is non-greedy, so a nested brace ends the match early.
const DefaultBlockPattern = `type\s+iconProps\s*=\s*\{[\s\S]*?\};?`

var sizeSuffixRegex = regexp.MustCompile(`^I(\d+)Px_(.+?)(\.[^.]+)?$`)

// StripPrefix returns name without prefix, and whether the prefix was present.
func StripPrefix(name, prefix string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(name, prefix) {
		return name, false
	}
	return strings.TrimPrefix(name, prefix), true
}

// StripSubstrings removes every occurrence of each substring, in order.
func StripSubstrings(s string, subs ...string) string {
	for _, sub := range subs {
		if sub == "" {
			continue
		}
		s = strings.ReplaceAll(s, sub, "")
	}
	return s
}

// InsertImport puts importLine right after the last import statement of
// content, or on the first line when there is none. Content using CRLF line
// endings keeps them.
func InsertImport(content, importLine string) string {
	sep := "\n"
	if strings.Contains(content, "\r\n") {
		sep = "\r\n"
	}
	lines := strings.Split(content, sep)

	last := -1
	for i, line := range lines {
		if isImportStart(line) {
			last = importEnd(lines, i)
		}
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:last+1]...)
	out = append(out, importLine)
	out = append(out, lines[last+1:]...)
	return strings.Join(out, sep)
}

func isImportStart(line string) bool {
	l := strings.TrimLeftFunc(line, unicode.IsSpace)
	return strings.HasPrefix(l, "import ") || strings.HasPrefix(l, "import{") ||
		strings.HasPrefix(l, "import'") || strings.HasPrefix(l, `import"`)
}

// importEnd returns the index of the line that closes the import statement
// starting at lines[start]. Multi-line named imports end on their `from` line.
func importEnd(lines []string, start int) int {
	for j := start; j < len(lines); j++ {
		l := strings.TrimSpace(lines[j])
		if j == start && isSideEffectImport(l) {
			return j
		}
		if strings.Contains(l, "from ") || strings.Contains(l, "from'") ||
			strings.Contains(l, `from"`) || strings.HasSuffix(l, ";") {
			return j
		}
	}
	return start
}

func isSideEffectImport(l string) bool {
	rest := strings.TrimSpace(strings.TrimPrefix(l, "import"))
	return strings.HasPrefix(rest, "'") || strings.HasPrefix(rest, `"`)
}

// ReplaceLiteralBlock removes every occurrence of block from content and adds
// importLine. It reports false and leaves content alone if block is absent.
func ReplaceLiteralBlock(content, block, importLine string) (string, bool) {
	if block == "" || !strings.Contains(content, block) {
		return content, false
	}
	return InsertImport(strings.ReplaceAll(content, block, ""), importLine), true
}

// ReplaceBlockPattern is ReplaceLiteralBlock with the block located by re.
func ReplaceBlockPattern(content string, re *regexp.Regexp, importLine string) (string, bool) {
	if !re.MatchString(content) {
		return content, false
	}
	return InsertImport(re.ReplaceAllLiteralString(content, ""), importLine), true
}

// ExportAlias derives a camelCase export name from a component file name:
// "arrow-left-I12px.tsx" becomes "arrowLeftI12px".
func ExportAlias(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	parts := strings.Split(stem, "-")

	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	return b.String()
}

// ExportLine builds the index re-export for a component file.
func ExportLine(alias, filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return fmt.Sprintf("export { default as %s } from './%s';", alias, stem)
}

// SizeSuffixName turns "I12Px_Arrow.tsx" into "Arrow-I12px.tsx".
func SizeSuffixName(name string) (string, bool) {
	m := sizeSuffixRegex.FindStringSubmatch(name)
	if m == nil {
		return name, false
	}
	return fmt.Sprintf("%s-I%spx%s", m[2], m[1], m[3]), true
}

// Prefixer rewrites function declarations and default exports so that their
// identifiers carry a fixed prefix.
type Prefixer struct {
	prefix      string
	functionRe  *regexp2.Regexp
	exportRe    *regexp2.Regexp
	replacement string
}

// NewPrefixer compiles the lookahead-guarded patterns for prefix.
func NewPrefixer(prefix string) (*Prefixer, error) {
	if prefix == "" {
		return nil, fmt.Errorf("identifier prefix must not be empty")
	}
	quoted := regexp2.Escape(prefix)

	functionRe, err := regexp2.Compile(`\bfunction(\s+)(?!`+quoted+`)([A-Za-z_$][\w$]*)`, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile function pattern: %w", err)
	}
	exportRe, err := regexp2.Compile(`\bexport(\s+)default(\s+)(?!`+quoted+`|function\b|class\b|async\b)([A-Za-z_$][\w$]*)`, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile export pattern: %w", err)
	}

	return &Prefixer{
		prefix:      prefix,
		functionRe:  functionRe,
		exportRe:    exportRe,
		replacement: strings.ReplaceAll(prefix, "$", "$$"),
	}, nil
}

// Apply returns content with the prefix added where it is missing.
func (p *Prefixer) Apply(content string) (string, error) {
	out, err := p.functionRe.Replace(content, "function${1}"+p.replacement+"${2}", -1, -1)
	if err != nil {
		return "", fmt.Errorf("prefix functions: %w", err)
	}
	out, err = p.exportRe.Replace(out, "export${1}default${2}"+p.replacement+"${3}", -1, -1)
	if err != nil {
		return "", fmt.Errorf("prefix default export: %w", err)
	}
	return out, nil
}

// PrefixIdentifiers is a one-shot form of NewPrefixer(prefix).Apply(content).
func PrefixIdentifiers(content, prefix string) (string, error) {
	p, err := NewPrefixer(prefix)
	if err != nil {
		return "", err
	}
	return p.Apply(content)
}
