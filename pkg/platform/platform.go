// Package platform computes the host operating system once and answers the
// platform questions the rest of third-wheel needs: which filename template
// to use, what to substitute for {os}, and which archive extension a release
// uses when the manifest does not say.
package platform

import (
	"runtime"
	"strings"

	"github.com/alpertunga-bile/third-wheel/pkg/errors"
)

// Platform is the operating system packages are provisioned for.
type Platform struct {
	OS string `yaml:"os" json:"os"`
}

// Detect returns the host platform.
func Detect() Platform {
	return New(runtime.GOOS)
}

// New returns a platform for the given OS name, normalized.
// An empty name means the host.
func New(os string) Platform {
	if strings.TrimSpace(os) == "" {
		os = runtime.GOOS
	}
	return Platform{OS: NormalizeOS(os)}
}

// NormalizeOS maps common spellings onto the names used in templates.
func NormalizeOS(os string) string {
	os = strings.ToLower(strings.TrimSpace(os))
	switch os {
	case "win", "win32", "win64", "windows":
		return OSWindows
	case "linux":
		return OSLinux
	default:
		return os
	}
}

// Supported reports whether the platform has a filename template in the manifest.
func (p Platform) Supported() bool {
	return p.OS == OSWindows || p.OS == OSLinux
}

// Validate returns ErrUnsupportedPlatform for anything but windows and linux.
func (p Platform) Validate() error {
	if p.Supported() {
		return nil
	}
	return errors.Wrapf(errors.ErrUnsupportedPlatform, "%q (supported: %s)", p.OS, strings.Join(ValidOS(), ", "))
}

// Family returns the OS family, or ErrUnsupportedPlatform.
func (p Platform) Family() (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p.OS, nil
}

// IsWindows reports whether the platform is Windows.
func (p Platform) IsWindows() bool {
	return p.OS == OSWindows
}

// Token is the value substituted for {os} in filename templates.
func (p Platform) Token() string {
	return p.OS
}

// DefaultArchiveExt is the extension used when a package leaves file_ext unset.
// Windows release assets are mostly zips, Linux ones tarballs.
func (p Platform) DefaultArchiveExt() (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if p.IsWindows() {
		return ExtZip, nil
	}
	return ExtTarGz, nil
}

// Template picks the filename template for this platform.
func (p Platform) Template(winFormat, linuxFormat string) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if p.IsWindows() {
		return winFormat, nil
	}
	return linuxFormat, nil
}

// String returns the OS name.
func (p Platform) String() string {
	return p.OS
}
