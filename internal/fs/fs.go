package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrTargetExists is returned when a rename would overwrite an existing path.
var ErrTargetExists = errors.New("target already exists")

// Entry is a single directory entry returned by ListDir and Walk.
type Entry struct {
	Path  string
	Name  string
	IsDir bool
}

// ListDir returns the entries directly under dir, sorted by name.
func ListDir(dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not list %s: %w", dir, err)
	}
	entries := make([]Entry, 0, len(des))
	for _, de := range des {
		entries = append(entries, Entry{
			Path:  filepath.Join(dir, de.Name()),
			Name:  de.Name(),
			IsDir: de.IsDir(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// ListFiles returns the regular files directly under dir whose extension is ext.
// An empty ext matches every file.
func ListFiles(dir, ext string) ([]Entry, error) {
	entries, err := ListDir(dir)
	if err != nil {
		return nil, err
	}
	var files []Entry
	for _, e := range entries {
		if e.IsDir || !HasExt(e.Name, ext) {
			continue
		}
		files = append(files, e)
	}
	return files, nil
}

// Walk returns every regular file under root in lexical order, skipping
// directories whose base name is listed in skip. Paths below root that cannot
// be read are returned as failed and the walk goes on; only an unreadable
// root is an error.
func Walk(root string, skip []string) ([]Entry, []string, error) {
	return walkFS(os.DirFS(root), root, skip)
}

func walkFS(fsys iofs.FS, root string, skip []string) ([]Entry, []string, error) {
	skipSet := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		skipSet[s] = struct{}{}
	}

	var files []Entry
	var failed []string
	err := iofs.WalkDir(fsys, ".", func(p string, d iofs.DirEntry, err error) error {
		path := filepath.Join(root, filepath.FromSlash(p))
		if err != nil {
			if p == "." {
				return err
			}
			failed = append(failed, path)
			return nil
		}
		if d.IsDir() {
			if _, ok := skipSet[d.Name()]; ok && p != "." {
				return iofs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		files = append(files, Entry{Path: path, Name: d.Name()})
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not walk %s: %w", root, err)
	}
	return files, failed, nil
}

// HasExt reports whether name ends in ext. An empty ext matches everything.
func HasExt(name, ext string) bool {
	if ext == "" {
		return true
	}
	return filepath.Ext(name) == ext
}

// NormalizeExt adds the leading dot to an extension if it is missing.
func NormalizeExt(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

// GetFileSHA256 returns the hex encoded SHA256 of the file at path.
func GetFileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashString returns the hex encoded SHA256 of s.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Exists reports whether anything is present at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// SafeRename renames oldPath to newPath, refusing to replace an existing entry.
func SafeRename(oldPath, newPath string) error {
	if oldPath == newPath {
		return nil
	}
	if Exists(newPath) {
		return fmt.Errorf("rename %s -> %s: %w", oldPath, newPath, ErrTargetExists)
	}
	return os.Rename(oldPath, newPath)
}

// WriteFile writes content to path, keeping the permissions of an existing file.
func WriteFile(path, content string) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, []byte(content), perm)
}
