package model

import (
	"path/filepath"
	"testing"

	"github.com/alpertunga-bile/third-wheel/pkg/platform"
	"github.com/stretchr/testify/assert"
)

func TestNewResolvedPackage(t *testing.T) {
	target := filepath.Join("third_party")
	p := NewResolvedPackage("glfw", "https://github.com/glfw/glfw", "3.3.8", "zip", "{name}-{version}.bin.WIN64", target)

	assert.Equal(t, ".zip", p.FileExt)
	assert.Equal(t, filepath.Join(target, "glfw"), p.InstallLocation)
}

func TestInstallLocationIgnoresVersion(t *testing.T) {
	a := NewResolvedPackage("glfw", "", "3.3.8", ".zip", "", "tp")
	b := NewResolvedPackage("glfw", "", "3.4", ".zip", "", "tp")
	assert.Equal(t, a.InstallLocation, b.InstallLocation)
}

func TestNormalizeExt(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"zip":     ".zip",
		".zip":    ".zip",
		"tar.gz":  ".tar.gz",
		".tar.gz": ".tar.gz",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeExt(in), in)
	}
}

func TestArchiveFilename(t *testing.T) {
	tests := []struct {
		name     string
		template string
		ext      string
		os       string
		want     string
	}{
		{
			name:     "glfw windows",
			template: "{name}-{version}.bin.WIN64",
			ext:      ".zip",
			os:       platform.OSWindows,
			want:     "glfw-3.3.8.bin.WIN64.zip",
		},
		{
			name:     "os token",
			template: "{name}-{version}-{os}-x64",
			ext:      ".tar.gz",
			os:       platform.OSLinux,
			want:     "glfw-3.3.8-linux-x64.tar.gz",
		},
		{
			name:     "repeated placeholders",
			template: "{name}/{name}-{version}",
			ext:      ".tar",
			os:       platform.OSLinux,
			want:     "glfw/glfw-3.3.8.tar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewResolvedPackage("glfw", "", "3.3.8", tt.ext, tt.template, "tp")
			assert.Equal(t, tt.want, p.ArchiveFilename(platform.New(tt.os)))
		})
	}
}

func TestExtractedPath(t *testing.T) {
	p := NewResolvedPackage("glfw", "", "3.3.8", ".tar.gz", "{name}-{version}", "tp")
	archivePath := p.ArchivePath("tp", platform.New(platform.OSLinux))

	assert.Equal(t, filepath.Join("tp", "glfw-3.3.8.tar.gz"), archivePath)
	assert.Equal(t, filepath.Join("tp", "glfw-3.3.8"), p.ExtractedPath(archivePath))
}
