package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/sokinpui/iconfix/model"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
)

// Out receives summaries. Messages always go to stderr.
var Out io.Writer = os.Stdout

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(os.Stderr, format+"\n", a...)
}

// --- Summaries ---

// PrintSummary reports the outcome of a run, one line per file.
func PrintSummary(s model.Summary) {
	title := "Summary"
	if s.Task != "" {
		title = s.Task
	}
	HeaderColor.Fprintf(Out, "\n--- %s ---\n", title)

	if s.Message != "" {
		InfoColor.Fprintln(Out, s.Message)
	}

	if len(s.Output) > 0 {
		InfoColor.Fprintln(Out, "Generated:")
		PrintLines(s.Output)
	}

	if s.Count() == 0 && len(s.Failed) == 0 {
		if s.Message == "" && len(s.Output) == 0 {
			InfoColor.Fprintln(Out, "No files were updated.")
		}
		return
	}

	printList(SuccessColor, "Modified %d file(s):", s.Modified)
	printList(SuccessColor, "Created %d file(s):", s.Created)
	printList(SuccessColor, "Renamed %d file(s):", s.Renamed)
	printList(ErrorColor, "Failed to process %d file(s):", s.Failed)
}

func printList(c *color.Color, format string, items []string) {
	if len(items) == 0 {
		return
	}
	c.Fprintf(Out, format+"\n", len(items))
	for _, f := range items {
		fmt.Fprintf(Out, "  - %s\n", f)
	}
}

// PrintLines writes generated lines (such as export statements) verbatim.
func PrintLines(lines []string) {
	for _, l := range lines {
		fmt.Fprintln(Out, l)
	}
}

// --- Progress Bar ---

type ProgressBar struct {
	total   int
	prefix  string
	current int
}

func NewProgressBar(total int, prefix string) *ProgressBar {
	return &ProgressBar{total: total, prefix: prefix}
}

func (p *ProgressBar) Start() {
	p.draw()
}

// Set moves the bar to current out of total.
func (p *ProgressBar) Set(current, total int) {
	p.current = current
	p.total = total
	p.draw()
}

func (p *ProgressBar) Finish() {
	if p.total > 0 {
		fmt.Fprintln(os.Stderr)
	}
}

func (p *ProgressBar) draw() {
	if p.total == 0 {
		return
	}
	const barLength = 40
	percent := float64(p.current) / float64(p.total)
	filledLength := int(percent * barLength)
	bar := strings.Repeat("█", filledLength) + strings.Repeat("-", barLength-filledLength)

	percentStr := fmt.Sprintf("%.1f%%", percent*100)
	countStr := fmt.Sprintf("[%d/%d]", p.current, p.total)

	fmt.Fprintf(os.Stderr, "\r%s |%s| %s %s", p.prefix, bar, countStr, percentStr)
}
