// Package filesystem routes every file access through a swappable afero backend.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active backend.
func API() afero.Afero {
	return backend
}

// SetOsFs switches to the real filesystem.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to an empty in-memory filesystem. Tests use it.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// WriteAtomic replaces path with data so that readers never observe a partial file.
func WriteAtomic(path string, data []byte) error {
	if err := backend.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	tmp, err := backend.TempFile(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = backend.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		_ = backend.Remove(tmp.Name())
		return err
	}

	return backend.Rename(tmp.Name(), path)
}
