// Package task turns each icon refactor utility into a Planner: something
// that inspects a directory and describes the renames and content edits it
// wants, without touching anything.
package task

import (
	"fmt"
	"os"

	"github.com/sokinpui/iconfix/model"
)

// Task names, as used on the command line and in recipes.
const (
	NameStripPrefix       = "strip-prefix"
	NameTypeImport        = "type-import"
	NameStripSize         = "strip-size"
	NameExportList        = "export-list"
	NamePrefixIdentifiers = "prefix-identifiers"
	NameSizeSuffix        = "size-suffix"
)

// Planner computes the changes a task would make under dir.
type Planner interface {
	Name() string
	Plan(dir string) (*model.Plan, error)
}

func newPlan(name string) *model.Plan {
	return &model.Plan{Task: name}
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
