package iconfix

import (
	"fmt"
	"regexp"

	"github.com/sokinpui/iconfix/internal/fs"
	"github.com/sokinpui/iconfix/internal/task"
	"github.com/sokinpui/iconfix/model"
)

// Options for using iconfix as a library.
type Options struct {
	// Preview the changes without writing them.
	DryRun bool
	// Record the run so `iconfix undo` can reverse it.
	History bool
	// Write through Neovim buffers.
	Nvim bool
}

// StripPrefix renames every entry of dir whose name starts with prefix.
func StripPrefix(dir, prefix string, opts Options) (model.Summary, error) {
	return runTask(dir, opts, task.StripPrefix{Prefix: prefix})
}

// ReplaceTypeBlock removes every literal occurrence of block from the .tsx
// files of dir and adds importLine after their imports. Files named reserved
// are left alone.
func ReplaceTypeBlock(dir, block, importLine, reserved string, opts Options) (model.Summary, error) {
	return runTask(dir, opts, task.TypeImport{
		Block:    block,
		Import:   importLine,
		Reserved: reserved,
		Ext:      ".tsx",
	})
}

// ReplaceTypePattern is ReplaceTypeBlock matching the block with a regular
// expression.
func ReplaceTypePattern(dir, pattern, importLine, reserved string, opts Options) (model.Summary, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return model.Summary{}, fmt.Errorf("invalid pattern: %w", err)
	}
	return runTask(dir, opts, task.TypeImport{
		Pattern:  re,
		Import:   importLine,
		Reserved: reserved,
		Ext:      ".tsx",
	})
}

// StripSize removes each substring from the names and content of the files
// in dir with extension ext.
func StripSize(dir, ext string, substrings []string, opts Options) (model.Summary, error) {
	return runTask(dir, opts, task.StripSize{
		Substrings: substrings,
		Ext:        fs.NormalizeExt(ext),
	})
}

// GenerateExports appends an export line to index for every .tsx file of dir
// containing marker. The generated lines are in Summary.Output.
func GenerateExports(dir, index, marker string, opts Options) (model.Summary, error) {
	return runTask(dir, opts, task.ExportList{
		Index:  index,
		Marker: marker,
		Ext:    ".tsx",
	})
}

// PrefixIdentifiers prefixes function declarations and default exports in
// every file under dir whose name starts with prefix.
func PrefixIdentifiers(dir, prefix string, opts Options) (model.Summary, error) {
	return runTask(dir, opts, task.PrefixIdentifiers{
		Prefix: prefix,
		Skip:   []string{".git", "node_modules", ".iconfix"},
	})
}

// SizeSuffix renames I<n>Px_<name> files of dir to <name>-I<n>px.
func SizeSuffix(dir, ext string, opts Options) (model.Summary, error) {
	return runTask(dir, opts, task.SizeSuffix{Ext: fs.NormalizeExt(ext)})
}

func runTask(dir string, opts Options, p task.Planner) (model.Summary, error) {
	app, err := New(&Config{
		Dir:       dir,
		DryRun:    opts.DryRun,
		Nvim:      opts.Nvim,
		NoHistory: !opts.History,
	}, nil)
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to initialize iconfix app: %w", err)
	}
	return app.Run(p)
}
