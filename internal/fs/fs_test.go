package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestListFilesFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "b.tsx"), "")
	writeTestFile(t, filepath.Join(dir, "a.tsx"), "")
	writeTestFile(t, filepath.Join(dir, "index.ts"), "")
	if err := os.Mkdir(filepath.Join(dir, "dir.tsx"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := ListFiles(dir, ".tsx")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 2 || files[0].Name != "a.tsx" || files[1].Name != "b.tsx" {
		t.Fatalf("unexpected files: %+v", files)
	}
}

func TestWalkSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "icons", "x.tsx"), "")
	writeTestFile(t, filepath.Join(dir, "node_modules", "y.tsx"), "")
	writeTestFile(t, filepath.Join(dir, "z.tsx"), "")

	files, failed, err := Walk(dir, []string{"node_modules"})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(failed) != 0 {
		t.Errorf("unexpected failures: %v", failed)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %+v", files)
	}
	for _, f := range files {
		if f.Name == "y.tsx" {
			t.Errorf("node_modules should have been skipped")
		}
	}
}

// unreadableDirFS fails to list the directory named bad.
type unreadableDirFS struct {
	fstest.MapFS
	bad string
}

func (f unreadableDirFS) ReadDir(name string) ([]iofs.DirEntry, error) {
	if name == f.bad {
		return nil, &iofs.PathError{Op: "readdir", Path: name, Err: iofs.ErrPermission}
	}
	return f.MapFS.ReadDir(name)
}

func TestWalkRecordsUnreadableDirectories(t *testing.T) {
	fsys := unreadableDirFS{
		MapFS: fstest.MapFS{
			"a.tsx":        {Data: []byte("a")},
			"locked/b.tsx": {Data: []byte("b")},
			"nested/c.tsx": {Data: []byte("c")},
		},
		bad: "locked",
	}

	files, failed, err := walkFS(fsys, "root", nil)
	if err != nil {
		t.Fatalf("walkFS: %v", err)
	}
	var names []string
	for _, f := range files {
		names = append(names, f.Path)
	}
	want := []string{filepath.Join("root", "a.tsx"), filepath.Join("root", "nested", "c.tsx")}
	if len(names) != 2 || names[0] != want[0] || names[1] != want[1] {
		t.Errorf("files = %v, want %v", names, want)
	}
	if len(failed) != 1 || failed[0] != filepath.Join("root", "locked") {
		t.Errorf("failed = %v, want [%s]", failed, filepath.Join("root", "locked"))
	}
}

func TestWalkMissingRootFails(t *testing.T) {
	if _, _, err := Walk(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Error("expected an error for a missing root")
	}
}

func TestSafeRenameRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeTestFile(t, a, "a")
	writeTestFile(t, b, "b")

	err := SafeRename(a, b)
	if !errors.Is(err, ErrTargetExists) {
		t.Fatalf("expected ErrTargetExists, got %v", err)
	}
	data, _ := os.ReadFile(b)
	if string(data) != "b" {
		t.Errorf("target was overwritten: %q", data)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "objects"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	hash, err := s.Put("hello")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if hash != HashString("hello") {
		t.Errorf("hash mismatch: %s", hash)
	}
	got, err := s.Get(hash)
	if err != nil || got != "hello" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if _, err := s.Get(HashString("missing")); err == nil {
		t.Error("expected error for missing object")
	}
}

func TestNormalizeExt(t *testing.T) {
	cases := map[string]string{"tsx": ".tsx", ".ts": ".ts", "": ""}
	for in, want := range cases {
		if got := NormalizeExt(in); got != want {
			t.Errorf("NormalizeExt(%q) = %q, want %q", in, got, want)
		}
	}
}
