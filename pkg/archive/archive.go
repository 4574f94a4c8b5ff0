// Package archive reads and writes the release archives third-wheel handles:
// zip, tar and gzip-compressed tar.
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alpertunga-bile/third-wheel/internal/logger"
	"github.com/alpertunga-bile/third-wheel/pkg/fsutil"
	"github.com/mholt/archives"
)

// Manager handles archive extraction and creation operations.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// Handle is an open archive. Close it when done.
type Handle struct {
	Path   string
	Format Format

	file      *os.File
	extractor archives.Extractor
}

// Open opens the archive at archivePath. The format comes from the
// extension and is confirmed by sniffing the content.
func (am *Manager) Open(ctx context.Context, archivePath string) (*Handle, error) {
	format, err := FormatFromPath(archivePath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive file: %w", err)
	}

	identified, _, err := archives.Identify(ctx, "", file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%s: %w: %v", archivePath, ErrFormatMismatch, err)
	}
	if identified.Extension() != format.Extension() {
		_ = file.Close()
		return nil, fmt.Errorf("%s: expected %s, found %s: %w",
			archivePath, format.Extension(), identified.Extension(), ErrFormatMismatch)
	}

	extractor, ok := identified.(archives.Extractor)
	if !ok {
		_ = file.Close()
		return nil, fmt.Errorf("%s: %w", archivePath, ErrUnsupportedFormat)
	}

	return &Handle{
		Path:      archivePath,
		Format:    format,
		file:      file,
		extractor: extractor,
	}, nil
}

// Close releases the archive file.
func (h *Handle) Close() error {
	if h == nil || h.file == nil {
		return nil
	}
	err := h.file.Close()
	h.file = nil
	return err
}

// walk calls fn for every entry, with the entry name cleaned to a
// slash-separated relative path. The archive is rewound first, so walk can
// be called repeatedly.
func (h *Handle) walk(ctx context.Context, fn func(name string, f archives.FileInfo) error) error {
	if h.file == nil {
		return fs.ErrClosed
	}
	if _, err := h.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind archive: %w", err)
	}
	return h.extractor.Extract(ctx, h.file, func(ctx context.Context, f archives.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := path.Clean(strings.ReplaceAll(f.NameInArchive, "\\", "/"))
		if name == "." || name == "/" {
			return nil
		}
		return fn(name, f)
	})
}

// TopLevelDirs returns the distinct first path segments of every directory
// entry and of every entry nested below the top level, in archive order.
func (h *Handle) TopLevelDirs(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string
	err := h.walk(ctx, func(name string, f archives.FileInfo) error {
		first, _, nested := strings.Cut(name, "/")
		if !f.IsDir() && !nested {
			return nil
		}
		if !seen[first] {
			seen[first] = true
			dirs = append(dirs, first)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list archive %s: %w", h.Path, err)
	}
	return dirs, nil
}

// ExtractAll extracts all entries into destDir. Entries that would resolve
// outside destDir fail with ErrUnsafePath.
func (h *Handle) ExtractAll(ctx context.Context, destDir string) error {
	if err := fsutil.EnsureDir(destDir); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	return h.walk(ctx, func(name string, f archives.FileInfo) error {
		return extractEntry(name, f, destDir)
	})
}

// ExtractAll opens archivePath and extracts it into destDir.
func (am *Manager) ExtractAll(ctx context.Context, archivePath, destDir string) error {
	h, err := am.Open(ctx, archivePath)
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	return h.ExtractAll(ctx, destDir)
}

// Create creates an archive from the contents of sourceDir. The format
// follows the extension of archivePath.
func (am *Manager) Create(ctx context.Context, sourceDir, archivePath string) error {
	format, err := FormatFromPath(archivePath)
	if err != nil {
		return err
	}

	absolutePath, err := filepath.Abs(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for source directory: %w", err)
	}

	archiveFiles, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		absolutePath + string(os.PathSeparator): "",
	})
	if err != nil {
		return fmt.Errorf("failed to read files from disk: %w", err)
	}

	file, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", archivePath, err)
	}
	defer func() {
		_ = file.Sync()
		_ = file.Close()
	}()

	if err := format.archiver().Archive(ctx, file, archiveFiles); err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	logger.Debug("Created archive", logger.Fields{"path": archivePath, "files": len(archiveFiles)})

	return nil
}

// safeTarget joins name onto destDir, rejecting names that escape it.
func safeTarget(destDir, name string) (string, error) {
	local := filepath.FromSlash(name)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%s: %w", name, ErrUnsafePath)
	}
	return filepath.Join(destDir, local), nil
}

// extractEntry processes a single archive entry and writes it to destDir.
func extractEntry(name string, f archives.FileInfo, destDir string) error {
	targetPath, err := safeTarget(destDir, name)
	if err != nil {
		return err
	}

	if f.IsDir() {
		return os.MkdirAll(targetPath, fsutil.DirModeDefault)
	}

	if f.Mode()&fs.ModeSymlink != 0 {
		return writeSymlink(name, f, targetPath)
	}

	if hdr, ok := f.Header.(*tar.Header); ok && hdr.Typeflag == tar.TypeLink {
		return writeHardlink(name, hdr.Linkname, destDir, targetPath)
	}

	return writeRegularFile(name, f, targetPath)
}

// writeHardlink links targetPath to an entry extracted earlier. Tar link
// names are relative to the archive root. Filesystems without hard links
// get a copy.
func writeHardlink(name, linkname, destDir, targetPath string) error {
	sourcePath, err := safeTarget(destDir, path.Clean(strings.ReplaceAll(linkname, "\\", "/")))
	if err != nil {
		return fmt.Errorf("%s -> %s: %w", name, linkname, ErrUnsafePath)
	}
	if _, err := os.Lstat(sourcePath); err != nil {
		return fmt.Errorf("hard link %s: target %s not extracted: %w", name, linkname, err)
	}

	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", name, err)
	}
	_ = os.Remove(targetPath)

	if err := os.Link(sourcePath, targetPath); err != nil {
		logger.Warn("Hard link not supported, copying instead", logger.Fields{"entry": name, "error": err.Error()})
		if err := fsutil.Copy(sourcePath, targetPath); err != nil {
			return err
		}
		info, err := os.Stat(sourcePath)
		if err != nil {
			return err
		}
		return os.Chmod(targetPath, info.Mode().Perm())
	}
	return nil
}

// writeSymlink creates a symlink at targetPath. Link targets must stay
// inside the extraction root.
func writeSymlink(name string, f archives.FileInfo, targetPath string) error {
	linkTarget := f.LinkTarget
	if linkTarget == "" {
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("failed to read symlink %s: %w", name, err)
		}
		targetBytes, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return fmt.Errorf("failed to read symlink target %s: %w", name, err)
		}
		linkTarget = string(targetBytes)
	}

	resolved := path.Join(path.Dir(name), filepath.ToSlash(linkTarget))
	if path.IsAbs(linkTarget) || !filepath.IsLocal(filepath.FromSlash(resolved)) {
		return fmt.Errorf("%s -> %s: %w", name, linkTarget, ErrUnsafePath)
	}

	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return fmt.Errorf("failed to create parent directory for symlink %s: %w", name, err)
	}

	// Remove existing file/symlink if it exists
	_ = os.Remove(targetPath)

	return os.Symlink(linkTarget, targetPath)
}

// writeRegularFile writes a regular file and preserves mode and mtime.
func writeRegularFile(name string, f archives.FileInfo, targetPath string) error {
	srcFile, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", name, err)
	}
	defer func() { _ = srcFile.Close() }()

	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", name, err)
	}

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = fsutil.FileModeDefault
	}

	dstFile, err := fsutil.CreateFilePerm(targetPath, perm)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", targetPath, err)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file %s: %w", name, err)
	}

	if err := os.Chmod(targetPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions for %s: %w", targetPath, err)
	}
	if modTime := f.ModTime(); !modTime.IsZero() {
		if err := os.Chtimes(targetPath, modTime, modTime); err != nil {
			return fmt.Errorf("failed to set modification time for %s: %w", targetPath, err)
		}
	}
	return nil
}
