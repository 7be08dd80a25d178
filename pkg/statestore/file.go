package statestore

import (
	"fmt"
	"os"
	"path/filepath"
)

// File stores the snapshot in a single file on disk
type File struct {
	path string
}

// NewFile returns a file-backed store
func NewFile(path string) *File {
	return &File{path: path}
}

// Save writes the snapshot atomically (write to a temp file, then rename)
func (f *File) Save(data []byte) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("could not write snapshot: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("could not close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("could not replace snapshot: %w", err)
	}

	return nil
}

// Load reads the most recent snapshot
func (f *File) Load() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}

		return nil, err
	}

	return data, nil
}
