package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store keeps file contents addressed by their SHA256 so that previous
// versions can be restored by undo and redo.
type Store struct {
	dir string
}

// NewStore opens (and creates if needed) a content store rooted at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create object store: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Put saves content and returns its hash. Saving the same content twice is a no-op.
func (s *Store) Put(content string) (string, error) {
	hash := HashString(content)
	path := s.path(hash)
	if Exists(path) {
		return hash, nil
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("could not write object %s: %w", hash, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("could not store object %s: %w", hash, err)
	}
	return hash, nil
}

// Get returns the content stored under hash.
func (s *Store) Get(hash string) (string, error) {
	data, err := os.ReadFile(s.path(hash))
	if err != nil {
		return "", fmt.Errorf("object %s: %w", hash, err)
	}
	return string(data), nil
}

func (s *Store) path(hash string) string {
	return filepath.Join(s.dir, hash)
}
