package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"

	pkgerrors "github.com/alpertunga-bile/third-wheel/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "glfw.zip")
	require.NoError(t, os.WriteFile(file, []byte("zip"), 0o644))

	ok, err := Exists(file)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(tempDir)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(filepath.Join(tempDir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMove_File(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "glfw-3.3.8.zip.part")
	dst := filepath.Join(tempDir, "nested", "glfw-3.3.8.zip")
	require.NoError(t, os.WriteFile(src, []byte("archive bytes"), 0o644))

	require.NoError(t, Move(src, dst))

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "archive bytes", string(content))
	assert.NoFileExists(t, src)
}

func TestMove_Directory(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "glfw-3.3.8.bin.WIN64")
	dst := filepath.Join(tempDir, "glfw")

	require.NoError(t, os.MkdirAll(filepath.Join(src, "include", "GLFW"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "include", "GLFW", "glfw3.h"), []byte("header"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "LICENSE.md"), []byte("zlib"), 0o644))

	require.NoError(t, Move(src, dst))

	header, err := os.ReadFile(filepath.Join(dst, "include", "GLFW", "glfw3.h"))
	require.NoError(t, err)
	assert.Equal(t, "header", string(header))
	assert.FileExists(t, filepath.Join(dst, "LICENSE.md"))
	assert.NoDirExists(t, src)
}

func TestMove_PreservesPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "tool")
	dst := filepath.Join(tempDir, "bin", "tool")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\n"), 0o755))

	require.NoError(t, Move(src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestMove_Errors(t *testing.T) {
	assert.ErrorIs(t, Move("", "dst"), pkgerrors.ErrEmptyPaths)
	assert.ErrorIs(t, Move("src", ""), pkgerrors.ErrEmptyPaths)

	err := Move(filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "dst"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat source")
}

func TestIsCrossFilesystemError(t *testing.T) {
	assert.False(t, isCrossFilesystemError(nil))
	assert.False(t, isCrossFilesystemError(errors.New("permission denied")))
	assert.True(t, isCrossFilesystemError(&os.LinkError{Op: "rename", Old: "a", New: "b", Err: syscall.EXDEV}))
	assert.True(t, isCrossFilesystemError(errors.New("rename a b: invalid cross-device link")))
}

func TestCopy(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "source.txt")
	dst := filepath.Join(tempDir, "destination.txt")
	require.NoError(t, os.WriteFile(src, []byte("copy me"), 0o644))

	require.NoError(t, Copy(src, dst))

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "copy me", string(content))
	assert.FileExists(t, src)
}

func TestCreateFilePerm(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	path := filepath.Join(t.TempDir(), "run.sh")

	f, err := CreateFilePerm(path, 0o700)
	require.NoError(t, err)
	_, err = f.WriteString("echo hi")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}
