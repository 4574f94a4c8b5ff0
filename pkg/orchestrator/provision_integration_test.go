package orchestrator

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alpertunga-bile/third-wheel/pkg/archive"
	"github.com/alpertunga-bile/third-wheel/pkg/download"
	"github.com/alpertunga-bile/third-wheel/pkg/hooks"
	"github.com/alpertunga-bile/third-wheel/pkg/httpclient"
	"github.com/alpertunga-bile/third-wheel/pkg/manifest"
	"github.com/alpertunga-bile/third-wheel/pkg/platform"
	"github.com/alpertunga-bile/third-wheel/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// releaseServer serves a tags page and a single release asset. Only the
// bare-version download URL exists, so the "v" attempt always misses.
func releaseServer(t *testing.T, assetPath string, asset []byte, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch r.URL.Path {
		case "/glfw/glfw/tags":
			_, _ = io.WriteString(w, `<a class="Link--primary Link" href="#">3.3.8</a>`)
		case assetPath:
			_, _ = w.Write(asset)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func buildGlfwZip(t *testing.T) []byte {
	t.Helper()
	src := filepath.Join(t.TempDir(), "src")
	header := filepath.Join(src, "glfw-3.3.8.bin.WIN64", "include", "GLFW", "glfw3.h")
	require.NoError(t, os.MkdirAll(filepath.Dir(header), 0o755))
	require.NoError(t, os.WriteFile(header, []byte("#define GLFW_VERSION_MINOR 3"), 0o644))

	zipPath := filepath.Join(t.TempDir(), "glfw.zip")
	require.NoError(t, archive.NewManager().Create(context.Background(), src, zipPath))
	data, err := os.ReadFile(zipPath)
	require.NoError(t, err)
	return data
}

func newLiveOrchestrator(osName string) *Orchestrator {
	client := httpclient.New(httpclient.Options{Timeout: 10 * time.Second})
	return &Orchestrator{
		Resolver:   version.NewResolver(client),
		Fetcher:    download.NewFetcher(client, io.Discard),
		Normalizer: archive.NewManager(),
		HookRunner: hooks.NewTengoExecutor(),
		Platform:   platform.New(osName),
	}
}

func TestProvision_GlfwWindowsEndToEnd(t *testing.T) {
	var requests atomic.Int32
	server := releaseServer(t, "/glfw/glfw/releases/download/3.3.8/glfw-3.3.8.bin.WIN64.zip", buildGlfwZip(t), &requests)

	target := t.TempDir()
	pkg := manifest.Descriptor{
		Name:        "glfw",
		GitHubURL:   server.URL + "/glfw/glfw",
		Version:     strPtr("3.3.8"),
		FileExt:     strPtr(".zip"),
		WinFormat:   "{name}-{version}.bin.WIN64",
		LinuxFormat: "{name}-{version}",
		PostInstall: `
			os := import("os")
			f := os.create(installPath + "/installed-by-hook")
			f.write_string(packageName + " " + packageVersion + " " + platform)
			f.close()
		`,
	}

	orch := newLiveOrchestrator(platform.OSWindows)
	require.NoError(t, orch.Provision(context.Background(), target, []manifest.Descriptor{pkg}, ProvisionOptions{}))

	assert.FileExists(t, filepath.Join(target, "glfw", "include", "GLFW", "glfw3.h"))
	assert.NoFileExists(t, filepath.Join(target, "glfw-3.3.8.bin.WIN64.zip"))
	assert.NoDirExists(t, filepath.Join(target, "glfw-3.3.8.bin.WIN64"))

	marker, err := os.ReadFile(filepath.Join(target, "glfw", "installed-by-hook"))
	require.NoError(t, err)
	assert.Equal(t, "glfw 3.3.8 windows", string(marker))

	// "v" attempt + bare attempt, no tags lookup for a pinned version.
	assert.Equal(t, int32(2), requests.Load())

	// A second run finds the install location and stays offline.
	require.NoError(t, orch.Provision(context.Background(), target, []manifest.Descriptor{pkg}, ProvisionOptions{}))
	assert.Equal(t, int32(2), requests.Load())
}

func TestProvision_LatestVersionFlatTarball(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "lib", "libglfw.so"), []byte("elf"), 0o644))
	tarPath := filepath.Join(t.TempDir(), "asset.tar.gz")
	require.NoError(t, archive.NewManager().Create(context.Background(), src, tarPath))
	asset, err := os.ReadFile(tarPath)
	require.NoError(t, err)

	var requests atomic.Int32
	server := releaseServer(t, "/glfw/glfw/releases/download/3.3.8/glfw-3.3.8-linux.tar.gz", asset, &requests)

	target := filepath.Join(t.TempDir(), "third_party")
	pkg := manifest.Descriptor{
		Name:        "glfw",
		GitHubURL:   server.URL + "/glfw/glfw",
		WinFormat:   "{name}-{version}.bin.WIN64",
		LinuxFormat: "{name}-{version}-{os}",
	}

	orch := newLiveOrchestrator(platform.OSLinux)
	require.NoError(t, orch.Provision(context.Background(), target, []manifest.Descriptor{pkg}, ProvisionOptions{}))

	assert.FileExists(t, filepath.Join(target, "glfw", "lib", "libglfw.so"))
	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "glfw", entries[0].Name())
}
