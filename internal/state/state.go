package state

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sokinpui/iconfix/internal/fs"
)

const (
	DirName       = ".iconfix"
	stateFileName = "state.iconfix"
	objectsDir    = "objects"
)

// Operation actions.
const (
	ActionModify = "modify"
	ActionCreate = "create"
	ActionRename = "rename"
)

// Operation represents a single applied file operation.
type Operation struct {
	Action string
	Path   string
	// ContentHash is the SHA256 of the file content after the operation.
	ContentHash string
	// PrevHash is the SHA256 of the content before a modify.
	PrevHash string
	NewPath  string
}

// HistoryEntry represents one complete run of a task.
type HistoryEntry struct {
	ID         string
	Timestamp  int64
	Task       string
	Operations []Operation
}

// State represents the entire state file.
type State struct {
	History      []HistoryEntry
	CurrentIndex int
}

// Manager handles the lifecycle of the state file.
type Manager struct {
	statePath string
	state     *State
	store     *fs.Store
	StateDir  string
}

// findGitRoot finds the root of the git repository.
func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// New creates and loads a state manager rooted at the git repository, or at
// the working directory outside of one.
func New() (*Manager, error) {
	rootDir, err := findGitRoot()
	if err != nil {
		rootDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not get current working directory: %w", err)
		}
	}
	return NewAt(rootDir)
}

// NewAt creates and loads a state manager that keeps its files under rootDir.
func NewAt(rootDir string) (*Manager, error) {
	stateDir := filepath.Join(rootDir, DirName)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create state directory: %w", err)
	}
	store, err := fs.NewStore(filepath.Join(stateDir, objectsDir))
	if err != nil {
		return nil, err
	}
	m := &Manager{
		statePath: filepath.Join(stateDir, stateFileName),
		store:     store,
		StateDir:  stateDir,
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

// Store returns the content store that holds before and after images.
func (m *Manager) Store() *fs.Store {
	return m.store
}

// Entries returns a copy of the recorded history and the current index.
func (m *Manager) Entries() ([]HistoryEntry, int) {
	out := make([]HistoryEntry, len(m.state.History))
	copy(out, m.state.History)
	return out, m.state.CurrentIndex
}

func (m *Manager) load() error {
	m.state = &State{CurrentIndex: -1}

	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not read state file: %w", err)
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	blocks := strings.Split(content, "\n\n")
	if len(blocks) == 0 || strings.TrimSpace(blocks[0]) == "" {
		return nil
	}

	index, err := strconv.Atoi(strings.TrimSpace(blocks[0]))
	if err != nil {
		return fmt.Errorf("invalid state file: could not parse current index: %w", err)
	}
	m.state.CurrentIndex = index

	for _, block := range blocks[1:] {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		entry, err := parseEntry(strings.Split(block, "\n"))
		if err != nil {
			return err
		}
		m.state.History = append(m.state.History, entry)
	}

	if m.state.CurrentIndex >= len(m.state.History) {
		return fmt.Errorf("invalid state file: index %d out of range", m.state.CurrentIndex)
	}
	return nil
}

func parseEntry(lines []string) (HistoryEntry, error) {
	if len(lines) < 3 {
		return HistoryEntry{}, fmt.Errorf("invalid state file: incomplete history entry")
	}
	ts, err := strconv.ParseInt(lines[0], 10, 64)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("invalid state file: could not parse timestamp from '%s': %w", lines[0], err)
	}
	entry := HistoryEntry{Timestamp: ts, ID: lines[1], Task: lines[2]}

	opLines := lines[3:]
	i := 0
	for i < len(opLines) {
		if i+3 > len(opLines) {
			return HistoryEntry{}, fmt.Errorf("invalid state file: incomplete operation record")
		}
		op := Operation{
			Action:      opLines[i],
			Path:        opLines[i+1],
			ContentHash: opLines[i+2],
		}
		i += 3
		switch op.Action {
		case ActionModify:
			if i >= len(opLines) {
				return HistoryEntry{}, fmt.Errorf("invalid state file: incomplete modify operation record")
			}
			op.PrevHash = opLines[i]
			i++
		case ActionRename:
			if i >= len(opLines) {
				return HistoryEntry{}, fmt.Errorf("invalid state file: incomplete rename operation record")
			}
			op.NewPath = opLines[i]
			i++
		case ActionCreate:
		default:
			return HistoryEntry{}, fmt.Errorf("invalid state file: unknown action %q", op.Action)
		}
		entry.Operations = append(entry.Operations, op)
	}
	return entry, nil
}

func (m *Manager) save() error {
	var blocks []string

	blocks = append(blocks, strconv.Itoa(m.state.CurrentIndex))

	for _, entry := range m.state.History {
		lines := []string{strconv.FormatInt(entry.Timestamp, 10), entry.ID, entry.Task}
		for _, op := range entry.Operations {
			lines = append(lines, op.Action, op.Path, op.ContentHash)
			switch op.Action {
			case ActionModify:
				lines = append(lines, op.PrevHash)
			case ActionRename:
				lines = append(lines, op.NewPath)
			}
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	content := strings.Join(blocks, "\n\n") + "\n"
	if err := os.WriteFile(m.statePath, []byte(content), 0644); err != nil {
		return fmt.Errorf("could not write state file: %w", err)
	}
	return nil
}

// Write adds a new set of operations to the history, dropping anything that
// could still have been redone.
func (m *Manager) Write(task string, operations []Operation) (HistoryEntry, error) {
	if m.state.CurrentIndex < len(m.state.History)-1 {
		m.state.History = m.state.History[:m.state.CurrentIndex+1]
	}

	if task == "" {
		task = "unknown"
	}
	entry := HistoryEntry{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC().Unix(),
		Task:       task,
		Operations: operations,
	}
	m.state.History = append(m.state.History, entry)
	m.state.CurrentIndex++
	return entry, m.save()
}

// GetOperationsToUndo returns the entry an undo would reverse, or nil. The
// history pointer only moves once MarkUndone is called.
func (m *Manager) GetOperationsToUndo() *HistoryEntry {
	if m.state.CurrentIndex < 0 {
		return nil
	}
	entry := m.state.History[m.state.CurrentIndex]
	return &entry
}

// MarkUndone moves the history pointer back past the current entry.
func (m *Manager) MarkUndone() error {
	if m.state.CurrentIndex < 0 {
		return nil
	}
	m.state.CurrentIndex--
	return m.save()
}

// GetOperationsToRedo returns the entry a redo would replay, or nil. The
// history pointer only moves once MarkRedone is called.
func (m *Manager) GetOperationsToRedo() *HistoryEntry {
	nextIndex := m.state.CurrentIndex + 1
	if nextIndex >= len(m.state.History) {
		return nil
	}
	entry := m.state.History[nextIndex]
	return &entry
}

// MarkRedone moves the history pointer forward onto the next entry.
func (m *Manager) MarkRedone() error {
	if m.state.CurrentIndex+1 >= len(m.state.History) {
		return nil
	}
	m.state.CurrentIndex++
	return m.save()
}
