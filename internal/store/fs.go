package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FS stores one JSON file per identifier under a data directory.
type FS struct {
	dir string
}

// NewFS creates the filesystem backend, making the data directory if
// needed.
func NewFS(dir string) (*FS, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FS{dir: dir}, nil
}

func (f *FS) path(id string) string {
	return filepath.Join(f.dir, id+".json")
}

// Put writes the document via a temp file and rename, so a failed
// write never leaves a partial record behind.
func (f *FS) Put(_ context.Context, id string, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, id+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path(id))
}

func (f *FS) Get(_ context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(f.path(id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return data, err
}

func (f *FS) Delete(_ context.Context, id string) error {
	err := os.Remove(f.path(id))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}

func (f *FS) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}
