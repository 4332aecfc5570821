// Package apply carries out a task plan, and replays or reverses recorded
// history entries. Every item is handled on its own: a failure is recorded
// and the remaining items still run.
package apply

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/sokinpui/iconfix/internal/fs"
	"github.com/sokinpui/iconfix/internal/state"
	"github.com/sokinpui/iconfix/model"
)

// dirHash stands in for a content hash when a renamed entry is a directory.
const dirHash = "-"

var (
	errChanged = errors.New("file changed since it was planned")
	errExists  = errors.New("file already exists")
	errNoStore = errors.New("no content store to restore from")
)

// Writer stores new file content. The default writes straight to disk.
type Writer interface {
	WriteFile(path, content string) error
}

// RenameObserver is notified after each successful rename.
type RenameObserver interface {
	Renamed(oldPath, newPath string)
}

// DiskWriter writes content to the filesystem.
type DiskWriter struct{}

func (DiskWriter) WriteFile(path, content string) error {
	return fs.WriteFile(path, content)
}

// Failure is a path that could not be processed, with the reason.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s (%v)", f.Path, f.Err)
}

// Result lists what happened to each planned item.
type Result struct {
	Created  []string
	Modified []string
	Renamed  []model.FileRename
	Failed   []Failure
}

// ProgressFunc is called after each item with the number done so far.
type ProgressFunc func(current, total int)

// Executor applies plans and history entries.
type Executor struct {
	writer   Writer
	store    *fs.Store
	log      *zap.Logger
	observer RenameObserver
	progress ProgressFunc
}

// New creates an Executor. A nil writer means DiskWriter and a nil logger
// discards diagnostics. A nil store disables Undo and Redo of content.
func New(writer Writer, store *fs.Store, log *zap.Logger) *Executor {
	if writer == nil {
		writer = DiskWriter{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	e := &Executor{writer: writer, store: store, log: log}
	if obs, ok := writer.(RenameObserver); ok {
		e.observer = obs
	}
	return e
}

// SetProgress registers a callback for per-item progress.
func (e *Executor) SetProgress(fn ProgressFunc) {
	e.progress = fn
}

// Apply writes every content change, then performs every rename. It returns
// what happened and the operations to record for undo.
func (e *Executor) Apply(plan *model.Plan) (Result, []state.Operation) {
	var res Result
	var ops []state.Operation
	if plan == nil {
		return res, nil
	}

	changes := append([]model.FileChange(nil), plan.Changes...)
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	renames := append([]model.FileRename(nil), plan.Renames...)
	sort.SliceStable(renames, func(i, j int) bool { return renames[i].OldPath < renames[j].OldPath })

	total := len(changes) + len(renames)
	done := 0
	step := func() {
		done++
		if e.progress != nil {
			e.progress(done, total)
		}
	}

	for _, c := range changes {
		op, err := e.applyChange(c)
		if err != nil {
			e.log.Warn("content change failed", zap.String("path", c.Path), zap.Error(err))
			res.Failed = append(res.Failed, Failure{Path: c.Path, Err: err})
		} else {
			e.log.Debug("content changed", zap.String("path", c.Path), zap.String("action", op.Action))
			ops = append(ops, op)
			if op.Action == state.ActionCreate {
				res.Created = append(res.Created, c.Path)
			} else {
				res.Modified = append(res.Modified, c.Path)
			}
		}
		step()
	}

	for _, r := range renames {
		op, err := e.applyRename(r)
		if err != nil {
			e.log.Warn("rename failed", zap.String("from", r.OldPath), zap.String("to", r.NewPath), zap.Error(err))
			res.Failed = append(res.Failed, Failure{Path: r.OldPath, Err: err})
		} else {
			e.log.Debug("renamed", zap.String("from", r.OldPath), zap.String("to", r.NewPath))
			ops = append(ops, op)
			res.Renamed = append(res.Renamed, r)
		}
		step()
	}

	return res, ops
}

func (e *Executor) applyChange(c model.FileChange) (state.Operation, error) {
	if c.Create {
		if fs.Exists(c.Path) {
			return state.Operation{}, errExists
		}
		after, err := e.put(c.Content)
		if err != nil {
			return state.Operation{}, err
		}
		if err := e.writer.WriteFile(c.Path, c.Content); err != nil {
			return state.Operation{}, err
		}
		return state.Operation{Action: state.ActionCreate, Path: absPath(c.Path), ContentHash: after}, nil
	}

	current, err := fs.GetFileSHA256(c.Path)
	if err != nil {
		return state.Operation{}, err
	}
	if current != fs.HashString(c.Original) {
		return state.Operation{}, errChanged
	}
	before, err := e.put(c.Original)
	if err != nil {
		return state.Operation{}, err
	}
	after, err := e.put(c.Content)
	if err != nil {
		return state.Operation{}, err
	}
	if err := e.writer.WriteFile(c.Path, c.Content); err != nil {
		return state.Operation{}, err
	}
	return state.Operation{Action: state.ActionModify, Path: absPath(c.Path), ContentHash: after, PrevHash: before}, nil
}

// put saves content for later undo and returns its hash. Without a store
// only the hash is computed.
func (e *Executor) put(content string) (string, error) {
	if e.store == nil {
		return fs.HashString(content), nil
	}
	return e.store.Put(content)
}

func (e *Executor) applyRename(r model.FileRename) (state.Operation, error) {
	if err := fs.SafeRename(r.OldPath, r.NewPath); err != nil {
		return state.Operation{}, err
	}
	hash, err := entryHash(r.NewPath)
	if err != nil {
		return state.Operation{}, err
	}
	if e.observer != nil {
		e.observer.Renamed(r.OldPath, r.NewPath)
	}
	return state.Operation{Action: state.ActionRename, Path: absPath(r.OldPath), NewPath: absPath(r.NewPath), ContentHash: hash}, nil
}

// absPath returns path made absolute. Recorded paths must not depend on
// the working directory.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func entryHash(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return dirHash, nil
	}
	return fs.GetFileSHA256(path)
}

func checkHash(path, want string) error {
	got, err := entryHash(path)
	if err != nil {
		return err
	}
	if got != want {
		return errChanged
	}
	return nil
}
