package iconfix

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/sokinpui/iconfix/internal/apply"
	"github.com/sokinpui/iconfix/internal/config"
	"github.com/sokinpui/iconfix/internal/fs"
	"github.com/sokinpui/iconfix/internal/nvim"
	"github.com/sokinpui/iconfix/internal/preview"
	"github.com/sokinpui/iconfix/internal/recipe"
	"github.com/sokinpui/iconfix/internal/source"
	"github.com/sokinpui/iconfix/internal/state"
	"github.com/sokinpui/iconfix/internal/task"
	"github.com/sokinpui/iconfix/model"
)

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// Config controls how an App applies plans.
type Config struct {
	// Dir is the directory every task works on.
	Dir string
	// DryRun prints the plan instead of applying it.
	DryRun bool
	// Nvim routes content writes through Neovim buffers.
	Nvim     bool
	NvimAddr string
	// Clipboard copies generated lines (export-list) to the clipboard.
	Clipboard bool
	// NoHistory skips recording the run, which also disables undo.
	NoHistory bool
	// StateRoot overrides where .iconfix/ lives. Empty means the git root or
	// the working directory.
	StateRoot string
}

// App orchestrates planning, applying and recording a task.
type App struct {
	cfg              *Config
	stateManager     *state.Manager
	log              *zap.Logger
	progressCallback ProgressUpdate
	previewOut       io.Writer
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

var errNoHistory = errors.New("history is disabled for this run")

// New creates a new App instance.
func New(cfg *Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", cfg.Dir)
	}

	a := &App{cfg: cfg, log: log, previewOut: os.Stdout}
	if cfg.NoHistory {
		return a, nil
	}

	var sm *state.Manager
	if cfg.StateRoot != "" {
		sm, err = state.NewAt(cfg.StateRoot)
	} else {
		sm, err = state.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize state manager: %w", err)
	}
	a.stateManager = sm
	return a, nil
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// SetPreviewOutput sets where dry-run diffs are written.
func (a *App) SetPreviewOutput(w io.Writer) {
	a.previewOut = w
}

// Run plans p against the configured directory and applies the result.
func (a *App) Run(p task.Planner) (model.Summary, error) {
	return a.runIn(a.cfg.Dir, p)
}

func (a *App) runIn(dir string, p task.Planner) (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	plan, err := p.Plan(dir)
	if err != nil {
		return model.Summary{}, fmt.Errorf("%s: %w", p.Name(), err)
	}
	a.log.Debug("planned",
		zap.String("task", p.Name()),
		zap.String("dir", dir),
		zap.Int("changes", len(plan.Changes)),
		zap.Int("renames", len(plan.Renames)),
	)

	summary = model.Summary{Task: p.Name(), Output: plan.Output}
	for _, path := range plan.Failed {
		summary.Failed = append(summary.Failed, a.relPath(path)+" (unreadable)")
	}

	if plan.Empty() {
		if len(summary.Failed) == 0 {
			summary.Message = "Nothing to do."
		}
		a.relativizeSummaryPaths(&summary)
		return summary, nil
	}

	if a.cfg.DryRun {
		if err := preview.Render(a.previewOut, plan, dir); err != nil {
			return model.Summary{}, fmt.Errorf("failed to render preview: %w", err)
		}
		summary.Message = "Dry run: no files were changed."
		return summary, nil
	}

	writer, closeWriter := a.newWriter()
	defer closeWriter()

	executor := apply.New(writer, a.store(), a.log)
	executor.SetProgress(apply.ProgressFunc(a.progressCallback))
	res, ops := executor.Apply(plan)

	if len(ops) > 0 && a.stateManager != nil {
		if _, err := a.stateManager.Write(p.Name(), ops); err != nil {
			a.log.Warn("could not record history", zap.Error(err))
			summary.Message = "History could not be saved; this run cannot be undone."
		}
	}

	if a.cfg.Clipboard && len(plan.Output) > 0 {
		if err := source.Copy(plan.Output); err != nil {
			a.log.Warn("clipboard copy failed", zap.Error(err))
		} else if summary.Message == "" {
			summary.Message = fmt.Sprintf("Copied %d line(s) to the clipboard.", len(plan.Output))
		}
	}

	a.fillSummary(&summary, res)
	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

// RunRecipe runs each step against base overlaid with the step's options.
// Each step is recorded as its own history entry. A step that cannot be
// planned stops the recipe.
func (a *App) RunRecipe(r *recipe.Recipe, base *config.Config) (model.Summary, error) {
	merged := model.Summary{Task: "recipe"}
	for i, step := range r.Steps {
		cfg := step.Overlay(base)
		p, err := task.FromConfig(step.Task, cfg)
		if err != nil {
			return merged, fmt.Errorf("step %d: %w", i+1, err)
		}
		s, err := a.runIn(cfg.Dir, p)
		if err != nil {
			return merged, fmt.Errorf("step %d: %w", i+1, err)
		}
		merged.Created = append(merged.Created, s.Created...)
		merged.Modified = append(merged.Modified, s.Modified...)
		merged.Renamed = append(merged.Renamed, s.Renamed...)
		merged.Failed = append(merged.Failed, s.Failed...)
		merged.Output = append(merged.Output, s.Output...)
	}
	merged.Message = fmt.Sprintf("Ran %d step(s).", len(r.Steps))
	if a.cfg.DryRun {
		merged.Message += " Dry run: no files were changed."
	}
	return merged, nil
}

// Undo reverses the most recent recorded run. When every operation fails,
// the entry stays current so the undo can be retried.
func (a *App) Undo() (model.Summary, error) {
	if a.stateManager == nil {
		return model.Summary{}, errNoHistory
	}
	entry := a.stateManager.GetOperationsToUndo()
	if entry == nil {
		return model.Summary{Task: "undo", Message: "No operation to undo."}, nil
	}

	writer, closeWriter := a.newWriter()
	defer closeWriter()

	executor := apply.New(writer, a.store(), a.log)
	executor.SetProgress(apply.ProgressFunc(a.progressCallback))
	res := executor.Undo(entry)

	summary := model.Summary{Task: "undo"}
	if nothingDone(res, entry) {
		summary.Message = fmt.Sprintf("Nothing could be undone (%s); history is unchanged.", entry.Task)
	} else if err := a.stateManager.MarkUndone(); err != nil {
		return model.Summary{}, err
	} else {
		summary.Message = fmt.Sprintf("Undid last operation (%s).", entry.Task)
	}
	a.fillSummary(&summary, res)
	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

// Redo replays the most recently undone run. When every operation fails,
// the entry stays redoable.
func (a *App) Redo() (model.Summary, error) {
	if a.stateManager == nil {
		return model.Summary{}, errNoHistory
	}
	entry := a.stateManager.GetOperationsToRedo()
	if entry == nil {
		return model.Summary{Task: "redo", Message: "No operation to redo."}, nil
	}

	writer, closeWriter := a.newWriter()
	defer closeWriter()

	executor := apply.New(writer, a.store(), a.log)
	executor.SetProgress(apply.ProgressFunc(a.progressCallback))
	res := executor.Redo(entry)

	summary := model.Summary{Task: "redo"}
	if nothingDone(res, entry) {
		summary.Message = fmt.Sprintf("Nothing could be redone (%s); history is unchanged.", entry.Task)
	} else if err := a.stateManager.MarkRedone(); err != nil {
		return model.Summary{}, err
	} else {
		summary.Message = fmt.Sprintf("Redid last undone operation (%s).", entry.Task)
	}
	a.fillSummary(&summary, res)
	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

// nothingDone reports whether every operation of a non-empty entry failed.
func nothingDone(res apply.Result, entry *state.HistoryEntry) bool {
	return len(entry.Operations) > 0 && len(res.Failed) == len(entry.Operations)
}

func (a *App) store() *fs.Store {
	if a.stateManager == nil {
		return nil
	}
	return a.stateManager.Store()
}

// newWriter picks Neovim buffers when requested or when running inside
// Neovim, and the disk otherwise.
func (a *App) newWriter() (apply.Writer, func()) {
	noop := func() {}
	if !a.cfg.Nvim && os.Getenv("NVIM_LISTEN_ADDRESS") == "" {
		return apply.DiskWriter{}, noop
	}
	manager, err := nvim.New(a.cfg.NvimAddr, a.log)
	if err != nil {
		a.log.Warn("neovim unavailable, writing to disk", zap.Error(err))
		return apply.DiskWriter{}, noop
	}
	return &fallbackWriter{primary: manager, log: a.log}, manager.Close
}

// fallbackWriter writes through Neovim and retries on disk when a buffer
// write fails.
type fallbackWriter struct {
	primary *nvim.Manager
	disk    apply.DiskWriter
	log     *zap.Logger
}

func (w *fallbackWriter) WriteFile(path, content string) error {
	if err := w.primary.WriteFile(path, content); err != nil {
		w.log.Warn("neovim write failed, writing to disk", zap.String("path", path), zap.Error(err))
		return w.disk.WriteFile(path, content)
	}
	return nil
}

func (w *fallbackWriter) Renamed(oldPath, newPath string) {
	w.primary.Renamed(oldPath, newPath)
}

func (a *App) fillSummary(s *model.Summary, res apply.Result) {
	s.Created = append(s.Created, res.Created...)
	s.Modified = append(s.Modified, res.Modified...)
	for _, r := range res.Renamed {
		s.Renamed = append(s.Renamed, fmt.Sprintf("%s -> %s", a.relPath(r.OldPath), a.relPath(r.NewPath)))
	}
	for _, f := range res.Failed {
		s.Failed = append(s.Failed, fmt.Sprintf("%s (%v)", a.relPath(f.Path), f.Err))
	}
}

// relativizeSummaryPaths converts file paths in a summary to be relative to
// the current working directory for cleaner display.
func (a *App) relativizeSummaryPaths(summary *model.Summary) {
	makeRelative := func(paths []string) []string {
		out := make([]string, len(paths))
		for i, p := range paths {
			out[i] = a.relPath(p)
		}
		return out
	}
	summary.Created = makeRelative(summary.Created)
	summary.Modified = makeRelative(summary.Modified)
}

func (a *App) relPath(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil {
		return p
	}
	return rel
}
