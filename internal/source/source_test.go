package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetContentPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "block.txt")
	if err := os.WriteFile(path, []byte("type iconProps = {};\r\n\n"), 0644); err != nil {
		t.Fatal(err)
	}
	sp := New(path, true, "fallback")
	sp.clipboard = func() (string, error) { return "", errors.New("should not be called") }

	got, err := sp.GetContent()
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if got != "type iconProps = {};" {
		t.Errorf("got %q", got)
	}
}

func TestGetContentStdin(t *testing.T) {
	sp := New(Stdin, false, "")
	sp.stdin = strings.NewReader("type a = {};\n")

	got, err := sp.GetContent()
	if err != nil || got != "type a = {};" {
		t.Fatalf("GetContent = %q, %v", got, err)
	}
}

func TestGetContentClipboard(t *testing.T) {
	sp := New("", true, "fallback")
	sp.clipboard = func() (string, error) { return "from clipboard", nil }

	got, err := sp.GetContent()
	if err != nil || got != "from clipboard" {
		t.Fatalf("GetContent = %q, %v", got, err)
	}
}

func TestGetContentFallbackAndEmpty(t *testing.T) {
	got, err := New("", false, "default block").GetContent()
	if err != nil || got != "default block" {
		t.Fatalf("GetContent = %q, %v", got, err)
	}

	if _, err := New("", false, "  \n").GetContent(); err == nil {
		t.Error("expected an error for an empty block")
	}
}
