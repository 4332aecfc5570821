package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// SourceProvider retrieves the literal type block that type-import removes.
type SourceProvider struct {
	Path          string
	FromClipboard bool
	Fallback      string

	stdin     io.Reader
	clipboard func() (string, error)
}

// New creates a new SourceProvider. With no path and no clipboard request,
// GetContent returns fallback.
func New(path string, fromClipboard bool, fallback string) *SourceProvider {
	return &SourceProvider{
		Path:          path,
		FromClipboard: fromClipboard,
		Fallback:      fallback,
		stdin:         os.Stdin,
		clipboard:     clipboard.ReadAll,
	}
}

// GetContent retrieves content from a file, stdin, the clipboard, or the
// fallback, in that order of preference.
func (sp *SourceProvider) GetContent() (string, error) {
	var content string
	switch {
	case sp.Path == Stdin:
		data, err := io.ReadAll(sp.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		content = string(data)
	case sp.Path != "":
		data, err := os.ReadFile(sp.Path)
		if err != nil {
			return "", fmt.Errorf("failed to read block file: %w", err)
		}
		content = string(data)
	case sp.FromClipboard:
		data, err := sp.clipboard()
		if err != nil {
			return "", fmt.Errorf("failed to read from clipboard: %w", err)
		}
		content = data
	default:
		content = sp.Fallback
	}

	// Trailing newlines are not part of the block.
	content = strings.TrimRight(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("type block is empty")
	}
	return content, nil
}

// Copy puts lines on the clipboard, one per line.
func Copy(lines []string) error {
	if err := clipboard.WriteAll(strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w", err)
	}
	return nil
}
