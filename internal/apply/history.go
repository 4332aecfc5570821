package apply

import (
	"os"

	"go.uber.org/zap"

	"github.com/sokinpui/iconfix/internal/fs"
	"github.com/sokinpui/iconfix/internal/state"
	"github.com/sokinpui/iconfix/model"
)

// Undo reverses the operations of entry, last one first. An operation is
// skipped as failed when the file no longer matches what was recorded.
func (e *Executor) Undo(entry *state.HistoryEntry) Result {
	var res Result
	if entry == nil {
		return res
	}
	total := len(entry.Operations)
	for i := total - 1; i >= 0; i-- {
		op := entry.Operations[i]
		if err := e.undoOp(op, &res); err != nil {
			e.log.Warn("undo failed", zap.String("path", op.Path), zap.String("action", op.Action), zap.Error(err))
			res.Failed = append(res.Failed, Failure{Path: op.Path, Err: err})
		}
		if e.progress != nil {
			e.progress(total-i, total)
		}
	}
	return res
}

func (e *Executor) undoOp(op state.Operation, res *Result) error {
	switch op.Action {
	case state.ActionModify:
		if err := checkHash(op.Path, op.ContentHash); err != nil {
			return err
		}
		content, err := e.get(op.PrevHash)
		if err != nil {
			return err
		}
		if err := e.writer.WriteFile(op.Path, content); err != nil {
			return err
		}
		res.Modified = append(res.Modified, op.Path)

	case state.ActionCreate:
		if err := checkHash(op.Path, op.ContentHash); err != nil {
			return err
		}
		if err := os.Remove(op.Path); err != nil {
			return err
		}
		res.Modified = append(res.Modified, op.Path)

	case state.ActionRename:
		if err := checkHash(op.NewPath, op.ContentHash); err != nil {
			return err
		}
		if err := fs.SafeRename(op.NewPath, op.Path); err != nil {
			return err
		}
		if e.observer != nil {
			e.observer.Renamed(op.NewPath, op.Path)
		}
		res.Renamed = append(res.Renamed, model.FileRename{OldPath: op.NewPath, NewPath: op.Path})
	}
	return nil
}

func (e *Executor) get(hash string) (string, error) {
	if e.store == nil {
		return "", errNoStore
	}
	return e.store.Get(hash)
}

// Redo replays the operations of entry in their original order.
func (e *Executor) Redo(entry *state.HistoryEntry) Result {
	var res Result
	if entry == nil {
		return res
	}
	total := len(entry.Operations)
	for i, op := range entry.Operations {
		if err := e.redoOp(op, &res); err != nil {
			e.log.Warn("redo failed", zap.String("path", op.Path), zap.String("action", op.Action), zap.Error(err))
			res.Failed = append(res.Failed, Failure{Path: op.Path, Err: err})
		}
		if e.progress != nil {
			e.progress(i+1, total)
		}
	}
	return res
}

func (e *Executor) redoOp(op state.Operation, res *Result) error {
	switch op.Action {
	case state.ActionModify:
		if err := checkHash(op.Path, op.PrevHash); err != nil {
			return err
		}
		content, err := e.get(op.ContentHash)
		if err != nil {
			return err
		}
		if err := e.writer.WriteFile(op.Path, content); err != nil {
			return err
		}
		res.Modified = append(res.Modified, op.Path)

	case state.ActionCreate:
		if fs.Exists(op.Path) {
			return errExists
		}
		content, err := e.get(op.ContentHash)
		if err != nil {
			return err
		}
		if err := e.writer.WriteFile(op.Path, content); err != nil {
			return err
		}
		res.Created = append(res.Created, op.Path)

	case state.ActionRename:
		if err := checkHash(op.Path, op.ContentHash); err != nil {
			return err
		}
		if err := fs.SafeRename(op.Path, op.NewPath); err != nil {
			return err
		}
		if e.observer != nil {
			e.observer.Renamed(op.Path, op.NewPath)
		}
		res.Renamed = append(res.Renamed, model.FileRename{OldPath: op.Path, NewPath: op.NewPath})
	}
	return nil
}
