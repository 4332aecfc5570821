// Package preview renders a plan as text without applying it.
package preview

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/sokinpui/iconfix/model"
)

// Render writes a unified diff for every content change and one line per
// rename. Paths are shown relative to base when possible.
func Render(w io.Writer, plan *model.Plan, base string) error {
	for _, c := range plan.Changes {
		name := relative(base, c.Path)
		from := "a/" + name
		if c.Create {
			from = os.DevNull
		}
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(c.Original),
			B:        difflib.SplitLines(c.Content),
			FromFile: from,
			ToFile:   "b/" + name,
			Context:  3,
		}
		text, err := difflib.GetUnifiedDiffString(diff)
		if err != nil {
			return fmt.Errorf("diff %s: %w", name, err)
		}
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
	}
	for _, r := range plan.Renames {
		if _, err := fmt.Fprintf(w, "rename %s -> %s\n", relative(base, r.OldPath), relative(base, r.NewPath)); err != nil {
			return err
		}
	}
	return nil
}

func relative(base, path string) string {
	if base == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
