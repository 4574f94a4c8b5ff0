// Package fsutil provides the filesystem helpers shared by the fetcher, the
// archive normalizer and the provisioning orchestrator.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alpertunga-bile/third-wheel/pkg/errors"
)

// EnsureDir creates a directory and all missing parents with DirModeDefault.
func EnsureDir(path string) error {
	return os.MkdirAll(path, DirModeDefault)
}

// EnsureFileDir creates the parent directory of filePath.
func EnsureFileDir(filePath string) error {
	return EnsureDir(filepath.Dir(filePath))
}

// RemoveTree recursively deletes path. A missing path is not an error.
// It refuses to delete the filesystem root or the current working directory,
// since both would only ever reach here through a broken manifest.
func RemoveTree(path string) error {
	if path == "" {
		return errors.Wrap(errors.ErrInvalidPath, "refusing to remove an empty path")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidPath, "cannot resolve %s", path)
	}
	if abs == filepath.VolumeName(abs)+string(filepath.Separator) {
		return errors.Wrapf(errors.ErrInvalidPath, "refusing to remove filesystem root %s", abs)
	}
	if cwd, err := os.Getwd(); err == nil && filepath.Clean(cwd) == abs {
		return errors.Wrapf(errors.ErrInvalidPath, "refusing to remove working directory %s", abs)
	}

	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("failed to remove %s: %w", abs, err)
	}
	return nil
}
