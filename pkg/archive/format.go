package archive

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
)

// Format names an archive layout third-wheel can read and write.
type Format string

// Supported formats.
const (
	FormatZip   Format = "zip"
	FormatTar   Format = "tar"
	FormatTarGz Format = "tar.gz"
)

// Extension is the canonical file extension of the format.
func (f Format) Extension() string {
	return "." + string(f)
}

// FormatFromPath picks the format from the file name.
func FormatFromPath(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".zip"):
		return FormatZip, nil
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return FormatTarGz, nil
	case strings.HasSuffix(name, ".tar"):
		return FormatTar, nil
	default:
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}
}

// archiver returns the archives implementation for the format.
func (f Format) archiver() archives.Archiver {
	switch f {
	case FormatZip:
		return archives.Zip{}
	case FormatTar:
		return archives.Tar{}
	default:
		return archives.CompressedArchive{
			Compression: archives.Gz{},
			Archival:    archives.Tar{},
		}
	}
}
