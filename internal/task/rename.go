package task

import (
	"path/filepath"

	"github.com/sokinpui/iconfix/internal/fs"
	"github.com/sokinpui/iconfix/internal/rewrite"
	"github.com/sokinpui/iconfix/model"
)

// StripPrefix renames every entry of a directory whose name starts with Prefix.
type StripPrefix struct {
	Prefix string
}

func (t StripPrefix) Name() string { return NameStripPrefix }

func (t StripPrefix) Plan(dir string) (*model.Plan, error) {
	entries, err := fs.ListDir(dir)
	if err != nil {
		return nil, err
	}
	plan := newPlan(t.Name())
	for _, e := range entries {
		newName, ok := rewrite.StripPrefix(e.Name, t.Prefix)
		if !ok || newName == "" {
			continue
		}
		plan.Renames = append(plan.Renames, model.FileRename{
			OldPath: e.Path,
			NewPath: filepath.Join(dir, newName),
		})
	}
	return plan, nil
}

// SizeSuffix moves the size marker from the front of a file name to the end:
// I12Px_Arrow.tsx becomes Arrow-I12px.tsx.
type SizeSuffix struct {
	Ext string
}

func (t SizeSuffix) Name() string { return NameSizeSuffix }

func (t SizeSuffix) Plan(dir string) (*model.Plan, error) {
	files, err := fs.ListFiles(dir, t.Ext)
	if err != nil {
		return nil, err
	}
	plan := newPlan(t.Name())
	for _, f := range files {
		newName, ok := rewrite.SizeSuffixName(f.Name)
		if !ok {
			continue
		}
		plan.Renames = append(plan.Renames, model.FileRename{
			OldPath: f.Path,
			NewPath: filepath.Join(dir, newName),
		})
	}
	return plan, nil
}
