// Package model holds the per-run view of a package: the manifest entry with
// its version and archive extension settled for the current platform.
package model

import (
	"path/filepath"
	"strings"

	"github.com/alpertunga-bile/third-wheel/pkg/platform"
)

// Template placeholders.
const (
	PlaceholderName    = "{name}"
	PlaceholderVersion = "{version}"
	PlaceholderOS      = "{os}"
)

// ResolvedPackage is a package whose version and extension are known.
type ResolvedPackage struct {
	Name      string
	GitHubURL string
	Version   string
	// FileExt always starts with ".".
	FileExt string
	// Template is the filename template selected for the platform.
	Template string
	// InstallLocation is target/name and does not depend on the version.
	InstallLocation string
}

// NewResolvedPackage fills in InstallLocation and normalizes FileExt.
func NewResolvedPackage(name, githubURL, version, fileExt, template, targetDir string) *ResolvedPackage {
	return &ResolvedPackage{
		Name:            name,
		GitHubURL:       githubURL,
		Version:         version,
		FileExt:         NormalizeExt(fileExt),
		Template:        template,
		InstallLocation: InstallLocation(targetDir, name),
	}
}

// InstallLocation is where a package lives once provisioned.
func InstallLocation(targetDir, name string) string {
	return filepath.Join(targetDir, name)
}

// NormalizeExt prefixes ext with "." when missing.
func NormalizeExt(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// ArchiveFilename renders the release asset name: the template with
// placeholders replaced, followed by the extension.
func (p *ResolvedPackage) ArchiveFilename(plat platform.Platform) string {
	r := strings.NewReplacer(
		PlaceholderName, p.Name,
		PlaceholderVersion, p.Version,
		PlaceholderOS, plat.Token(),
	)
	return r.Replace(p.Template) + p.FileExt
}

// ArchivePath is the download location of the release asset inside targetDir.
func (p *ResolvedPackage) ArchivePath(targetDir string, plat platform.Platform) string {
	return filepath.Join(targetDir, p.ArchiveFilename(plat))
}

// ExtractedPath is the archive path without its extension, used as the
// extraction directory for archives without a root folder.
func (p *ResolvedPackage) ExtractedPath(archivePath string) string {
	return strings.TrimSuffix(archivePath, p.FileExt)
}
