package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/iconfix/iconfix"
	"github.com/sokinpui/iconfix/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")) // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))            // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))           // Red
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// RunFunc performs the work behind the spinner, reporting progress as it goes.
type RunFunc func(progress iconfix.ProgressUpdate) (model.Summary, error)

// --- Messages ---
type summaryMsg struct {
	model.Summary
}

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }

type progressMsg struct {
	current, total int
}

// --- Model ---
type Model struct {
	run     RunFunc
	program *programRef
	spinner spinner.Model
	state   state
	current int
	total   int
	summary summaryMsg
	err     error
}

type programRef struct {
	p *tea.Program
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

func New(run RunFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		run:     run,
		program: &programRef{},
		spinner: s,
		state:   stateProcessing,
	}
}

// SetProgram gives the model a handle for sending progress updates.
func (m Model) SetProgram(p *tea.Program) {
	m.program.p = p
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runTask)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Quit keys only take effect once the run has finished.
		if m.state == stateProcessing {
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case progressMsg:
		m.current, m.total = msg.current, msg.total
		return m, nil

	case summaryMsg:
		m.state = stateSummary
		m.summary = msg
		return m, tea.Quit

	case errorMsg:
		m.state = stateError
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		if m.total > 0 {
			return fmt.Sprintf("%s Processing... [%d/%d]", m.spinner.View(), m.current, m.total)
		}
		return fmt.Sprintf("%s Processing...", m.spinner.View())
	case stateError:
		return errorStyle.Render("Error: ", m.err.Error()) + "\n"
	case stateSummary:
		return m.renderSummary()
	default:
		return ""
	}
}

func (m *Model) renderSummary() string {
	var b strings.Builder

	if m.summary.Task != "" {
		b.WriteString(headerStyle.Render(m.summary.Task))
		b.WriteString("\n")
	}
	if m.summary.Message != "" {
		b.WriteString(headerStyle.Render(m.summary.Message))
		b.WriteString("\n\n")
	}

	hasContent := false
	section := func(title string, style lipgloss.Style, items []string) {
		if len(items) == 0 {
			return
		}
		hasContent = true
		b.WriteString(style.Render(fmt.Sprintf("%s (%d):", title, len(items))))
		b.WriteString("\n")
		for _, f := range items {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	section("Modified", successStyle, m.summary.Modified)
	section("Created", successStyle, m.summary.Created)
	section("Renamed", successStyle, m.summary.Renamed)
	section("Failed", errorStyle, m.summary.Failed)
	section("Generated", faintStyle, m.summary.Output)

	if !hasContent && m.summary.Message == "" {
		b.WriteString(faintStyle.Render("Nothing to do."))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) runTask() tea.Msg {
	progress := func(current, total int) {
		if m.program.p != nil {
			m.program.p.Send(progressMsg{current: current, total: total})
		}
	}
	summary, err := m.run(progress)
	if err != nil {
		var detailed *iconfix.DetailedError
		if errors.As(err, &detailed) {
			// The TUI will exit, so we can print to stderr here for the stack trace.
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
		}
		return errorMsg{err}
	}
	return summaryMsg{Summary: summary}
}

// Run shows a spinner while run executes and leaves the summary on screen.
func Run(run RunFunc) (model.Summary, error) {
	m := New(run)
	p := tea.NewProgram(m)
	m.SetProgram(p)

	final, err := p.Run()
	if err != nil {
		return model.Summary{}, fmt.Errorf("error running program: %w", err)
	}
	fm, ok := final.(Model)
	if !ok {
		return model.Summary{}, nil
	}
	switch fm.state {
	case stateError:
		return model.Summary{}, fm.err
	case stateSummary:
		return fm.summary.Summary, nil
	default:
		return model.Summary{}, errors.New("interrupted")
	}
}
