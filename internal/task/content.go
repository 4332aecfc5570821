package task

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sokinpui/iconfix/internal/fs"
	"github.com/sokinpui/iconfix/internal/rewrite"
	"github.com/sokinpui/iconfix/model"
)

// TypeImport replaces an inlined type declaration with an import of the
// shared type. The declaration is found either as an exact Block or, when
// Pattern is set, by regular expression.
type TypeImport struct {
	Block    string
	Pattern  *regexp.Regexp
	Import   string
	Reserved string
	Ext      string
}

func (t TypeImport) Name() string { return NameTypeImport }

func (t TypeImport) Plan(dir string) (*model.Plan, error) {
	if t.Import == "" {
		return nil, fmt.Errorf("%s: import line must not be empty", t.Name())
	}
	if t.Pattern == nil && t.Block == "" {
		return nil, fmt.Errorf("%s: either a literal block or a pattern is required", t.Name())
	}

	files, err := fs.ListFiles(dir, t.Ext)
	if err != nil {
		return nil, err
	}
	plan := newPlan(t.Name())
	for _, f := range files {
		if f.Name == t.Reserved {
			continue
		}
		content, err := readFile(f.Path)
		if err != nil {
			plan.Failed = append(plan.Failed, f.Path)
			continue
		}

		var updated string
		var ok bool
		if t.Pattern != nil {
			updated, ok = rewrite.ReplaceBlockPattern(content, t.Pattern, t.Import)
		} else {
			updated, ok = rewrite.ReplaceLiteralBlock(content, t.Block, t.Import)
		}
		if !ok {
			continue
		}
		plan.Changes = append(plan.Changes, model.FileChange{
			Path:     f.Path,
			Content:  updated,
			Original: content,
		})
	}
	return plan, nil
}

// StripSize removes size markers such as "12px_" from both the text and the
// name of every matching file.
type StripSize struct {
	Substrings []string
	Ext        string
}

func (t StripSize) Name() string { return NameStripSize }

func (t StripSize) Plan(dir string) (*model.Plan, error) {
	files, err := fs.ListFiles(dir, t.Ext)
	if err != nil {
		return nil, err
	}
	plan := newPlan(t.Name())
	for _, f := range files {
		content, err := readFile(f.Path)
		if err != nil {
			plan.Failed = append(plan.Failed, f.Path)
			continue
		}
		if updated := rewrite.StripSubstrings(content, t.Substrings...); updated != content {
			plan.Changes = append(plan.Changes, model.FileChange{
				Path:     f.Path,
				Content:  updated,
				Original: content,
			})
		}
		if newName := rewrite.StripSubstrings(f.Name, t.Substrings...); newName != f.Name && newName != "" {
			plan.Renames = append(plan.Renames, model.FileRename{
				OldPath: f.Path,
				NewPath: filepath.Join(dir, newName),
			})
		}
	}
	return plan, nil
}

// Ways ExportList can test a component file against its marker.
const (
	MatchContent = "content"
	MatchName    = "name"
)

// ExportList appends a default re-export to Index for every component file
// that contains Marker. Match selects whether the file content (the default)
// or the file name is searched.
type ExportList struct {
	Index        string
	Marker       string
	Ext          string
	SkipExisting bool
	Match        string
}

func (t ExportList) Name() string { return NameExportList }

func (t ExportList) Plan(dir string) (*model.Plan, error) {
	if t.Index == "" {
		return nil, fmt.Errorf("%s: index file must not be empty", t.Name())
	}
	byName := false
	switch t.Match {
	case "", MatchContent:
	case MatchName:
		byName = true
	default:
		return nil, fmt.Errorf("%s: unknown match mode %q (want %s or %s)", t.Name(), t.Match, MatchContent, MatchName)
	}
	indexPath := t.Index
	if !filepath.IsAbs(indexPath) {
		indexPath = filepath.Join(dir, indexPath)
	}

	original := ""
	exists := fs.Exists(indexPath)
	if exists {
		content, err := readFile(indexPath)
		if err != nil {
			return nil, err
		}
		original = content
	}

	existing := make(map[string]struct{})
	if t.SkipExisting {
		for _, line := range strings.Split(original, "\n") {
			existing[strings.TrimSpace(line)] = struct{}{}
		}
	}

	files, err := fs.ListFiles(dir, t.Ext)
	if err != nil {
		return nil, err
	}
	plan := newPlan(t.Name())
	for _, f := range files {
		if f.Path == indexPath {
			continue
		}
		if byName {
			if !strings.Contains(f.Name, t.Marker) {
				continue
			}
		} else {
			content, err := readFile(f.Path)
			if err != nil {
				plan.Failed = append(plan.Failed, f.Path)
				continue
			}
			if !strings.Contains(content, t.Marker) {
				continue
			}
		}
		line := rewrite.ExportLine(rewrite.ExportAlias(f.Name), f.Name)
		if _, dup := existing[line]; dup {
			continue
		}
		plan.Output = append(plan.Output, line)
	}

	if len(plan.Output) == 0 {
		return plan, nil
	}

	var b strings.Builder
	b.WriteString(original)
	if original != "" && !strings.HasSuffix(original, "\n") {
		b.WriteString("\n")
	}
	for _, line := range plan.Output {
		b.WriteString(line)
		b.WriteString("\n")
	}
	plan.Changes = append(plan.Changes, model.FileChange{
		Path:     indexPath,
		Content:  b.String(),
		Original: original,
		Create:   !exists,
	})
	return plan, nil
}

// PrefixIdentifiers walks a tree and, in every file whose name starts with
// Prefix, prefixes function declarations and default exports with Prefix.
type PrefixIdentifiers struct {
	Prefix string
	// Skip lists directory names that are never descended into.
	Skip []string
}

func (t PrefixIdentifiers) Name() string { return NamePrefixIdentifiers }

func (t PrefixIdentifiers) Plan(dir string) (*model.Plan, error) {
	prefixer, err := rewrite.NewPrefixer(t.Prefix)
	if err != nil {
		return nil, err
	}
	files, failed, err := fs.Walk(dir, t.Skip)
	if err != nil {
		return nil, err
	}
	plan := newPlan(t.Name())
	plan.Failed = append(plan.Failed, failed...)
	for _, f := range files {
		if !strings.HasPrefix(f.Name, t.Prefix) {
			continue
		}
		content, err := readFile(f.Path)
		if err != nil {
			plan.Failed = append(plan.Failed, f.Path)
			continue
		}
		updated, err := prefixer.Apply(content)
		if err != nil {
			plan.Failed = append(plan.Failed, f.Path)
			continue
		}
		if updated == content {
			continue
		}
		plan.Changes = append(plan.Changes, model.FileChange{
			Path:     f.Path,
			Content:  updated,
			Original: content,
		})
	}
	return plan, nil
}
