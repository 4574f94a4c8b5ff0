package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootFolder(t *testing.T) {
	tests := []struct {
		name string
		dirs []string
		pkg  string
		want string
	}{
		{name: "exact", dirs: []string{"glfw"}, pkg: "glfw", want: "glfw"},
		{name: "substring", dirs: []string{"docs", "glfw-3.3.8.bin.WIN64"}, pkg: "glfw", want: "glfw-3.3.8.bin.WIN64"},
		{name: "case sensitive", dirs: []string{"GLFW-3.4"}, pkg: "glfw", want: ""},
		{name: "flat", dirs: []string{"include", "lib"}, pkg: "glfw", want: ""},
		{name: "empty", pkg: "glfw", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RootFolder(tt.dirs, tt.pkg))
		})
	}
}

func TestManager_NormalizeSelfRooted(t *testing.T) {
	files := map[string]string{
		"glfw-3.3.8.bin.WIN64/include/GLFW/glfw3.h": "header",
		"glfw-3.3.8.bin.WIN64/lib-vc2022/glfw3.dll": "dll",
	}
	archivePath := buildArchive(t, "glfw-3.3.8.bin.WIN64.zip", files)

	target := t.TempDir()
	extracted := filepath.Join(target, "glfw-3.3.8.bin.WIN64")
	res, err := NewManager().Normalize(context.Background(), archivePath, target, extracted, "glfw")
	require.NoError(t, err)

	assert.True(t, res.SelfRooted)
	assert.Equal(t, filepath.Join(target, "glfw-3.3.8.bin.WIN64"), res.Dir)
	assertTree(t, target, files)
}

func TestManager_NormalizeFlat(t *testing.T) {
	files := map[string]string{
		"include/stb_image.h": "stb",
		"README.md":           "readme",
	}
	archivePath := buildArchive(t, "stb-1.0.tar.gz", files)

	target := t.TempDir()
	extracted := filepath.Join(target, "stb-1.0")
	res, err := NewManager().Normalize(context.Background(), archivePath, target, extracted, "stb")
	require.NoError(t, err)

	assert.False(t, res.SelfRooted)
	assert.Equal(t, extracted, res.Dir)
	assertTree(t, extracted, files)

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "stb-1.0", entries[0].Name())
}

func TestManager_NormalizeFlatWithUnrelatedDirectory(t *testing.T) {
	archivePath := buildArchive(t, "pkg.tar", map[string]string{"bin/tool": "x"})

	target := t.TempDir()
	extracted := filepath.Join(target, "pkg")
	res, err := NewManager().Normalize(context.Background(), archivePath, target, extracted, "imgui")
	require.NoError(t, err)
	assert.False(t, res.SelfRooted)
	assert.FileExists(t, filepath.Join(extracted, "bin", "tool"))
}

func TestManager_NormalizeRemovesCreatedDirOnFailure(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "evil.zip")
	f, err := os.Create(archivePath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("ok.txt")
	require.NoError(t, err)
	_, _ = w.Write([]byte("ok"))
	w, err = zw.Create("../../escaped.txt")
	require.NoError(t, err)
	_, _ = w.Write([]byte("bad"))
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	target := t.TempDir()
	extracted := filepath.Join(target, "evil")
	_, err = NewManager().Normalize(context.Background(), archivePath, target, extracted, "evil")
	require.ErrorIs(t, err, ErrUnsafePath)
	assert.NoDirExists(t, extracted)
}

func TestManager_NormalizeMissingArchive(t *testing.T) {
	target := t.TempDir()
	_, err := NewManager().Normalize(context.Background(), filepath.Join(target, "nope.zip"), target, filepath.Join(target, "nope"), "nope")
	assert.Error(t, err)
}

// writeTarGz writes headers in order; regular entries get body as content.
func writeTarGz(t *testing.T, archivePath string, entries []*tar.Header, bodies map[string]string) {
	t.Helper()
	f, err := os.Create(archivePath)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	for _, hdr := range entries {
		body := bodies[hdr.Name]
		if hdr.Typeflag == tar.TypeReg {
			hdr.Size = int64(len(body))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if hdr.Typeflag == tar.TypeReg {
			_, err := tw.Write([]byte(body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())
}

func TestManager_NormalizeResolvesHardLinks(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "glfw-3.3.8.tar.gz")
	writeTarGz(t, archivePath, []*tar.Header{
		{Typeflag: tar.TypeDir, Name: "glfw-3.3.8/", Mode: 0o755},
		{Typeflag: tar.TypeReg, Name: "glfw-3.3.8/libglfw.so.3.3", Mode: 0o755},
		{Typeflag: tar.TypeLink, Name: "glfw-3.3.8/libglfw.so", Linkname: "glfw-3.3.8/libglfw.so.3.3", Mode: 0o755},
	}, map[string]string{"glfw-3.3.8/libglfw.so.3.3": "payload"})

	target := filepath.Join(t.TempDir(), "tp")
	res, err := NewManager().Normalize(context.Background(), archivePath, target, filepath.Join(target, "glfw-3.3.8"), "glfw")
	require.NoError(t, err)
	assert.True(t, res.SelfRooted)

	data, err := os.ReadFile(filepath.Join(res.Dir, "libglfw.so"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestManager_ExtractRejectsEscapingHardLink(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "evil.tar.gz")
	writeTarGz(t, archivePath, []*tar.Header{
		{Typeflag: tar.TypeLink, Name: "pkg/passwd", Linkname: "../../etc/passwd", Mode: 0o644},
	}, nil)

	dest := t.TempDir()
	err := NewManager().ExtractAll(context.Background(), archivePath, dest)
	require.ErrorIs(t, err, ErrUnsafePath)
	assert.NoFileExists(t, filepath.Join(dest, "pkg", "passwd"))
}
