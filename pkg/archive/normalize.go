package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alpertunga-bile/third-wheel/internal/logger"
	"github.com/alpertunga-bile/third-wheel/pkg/fsutil"
)

// Result describes where a normalized archive ended up.
type Result struct {
	// Dir is the single directory holding the package files.
	Dir string
	// SelfRooted is true when the archive carried its own root folder.
	SelfRooted bool
}

// RootFolder returns the first top-level directory whose name contains the
// package name, or "" if the archive has no such root.
func RootFolder(topLevelDirs []string, packageName string) string {
	for _, dir := range topLevelDirs {
		if strings.Contains(dir, packageName) {
			return dir
		}
	}
	return ""
}

// Normalize extracts archivePath so that exactly one directory holds the
// package files. A self-rooted archive is extracted into targetDir; a flat
// one into extractedPath, which is created first. When extraction fails the
// result directory is removed if this call created it.
func (am *Manager) Normalize(ctx context.Context, archivePath, targetDir, extractedPath, packageName string) (Result, error) {
	h, err := am.Open(ctx, archivePath)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = h.Close() }()

	dirs, err := h.TopLevelDirs(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{Dir: extractedPath}
	dest := extractedPath
	if root := RootFolder(dirs, packageName); root != "" {
		result = Result{Dir: filepath.Join(targetDir, root), SelfRooted: true}
		dest = targetDir
	}
	logger.Debug("Archive layout", logger.Fields{
		"archive":     archivePath,
		"self_rooted": result.SelfRooted,
		"dir":         result.Dir,
	})

	existed, err := fsutil.Exists(result.Dir)
	if err != nil {
		return Result{}, err
	}
	if !result.SelfRooted {
		if err := fsutil.EnsureDir(extractedPath); err != nil {
			return Result{}, fmt.Errorf("failed to create %s: %w", extractedPath, err)
		}
	}

	if err := h.ExtractAll(ctx, dest); err != nil {
		if !existed {
			_ = os.RemoveAll(result.Dir)
		}
		return Result{}, fmt.Errorf("failed to extract %s: %w", archivePath, err)
	}

	return result, nil
}
