package main

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

//go:embed all:webapp
var embedFS embed.FS

// FileStore returns document bytes by request path ("/index.html").
type FileStore interface {
	Read(path string) ([]byte, error)
}

type fsFileStore struct {
	fsys fs.FS
}

func NewFileStore(fsys fs.FS) FileStore {
	return &fsFileStore{fsys}
}

// NewDirFileStore serves documents from root on disk.
func NewDirFileStore(root string) (FileStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("document root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document root %s is not a directory", root)
	}
	return NewFileStore(os.DirFS(root)), nil
}

// NewEmbeddedFileStore serves the webapp compiled into the binary.
func NewEmbeddedFileStore() (FileStore, error) {
	sub, err := fs.Sub(embedFS, "webapp")
	if err != nil {
		return nil, fmt.Errorf("embedded webapp: %w", err)
	}
	return NewFileStore(sub), nil
}

// Read fails with ErrNotFound for anything that does not name a regular
// file under the root, including paths that try to climb out of it.
func (s *fsFileStore) Read(path string) ([]byte, error) {
	name := strings.TrimPrefix(path, "/")
	if !fs.ValidPath(name) || name == "." {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	b, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		// missing, a directory, or unreadable
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}
