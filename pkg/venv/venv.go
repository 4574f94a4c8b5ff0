// Package venv bootstraps the isolated Python environment that sits next to
// the provisioned packages.
package venv

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alpertunga-bile/third-wheel/internal/logger"
	"github.com/alpertunga-bile/third-wheel/pkg/errors"
	"github.com/alpertunga-bile/third-wheel/pkg/fsutil"
	"github.com/alpertunga-bile/third-wheel/pkg/platform"
)

// Status reports what Ensure did.
type Status string

const (
	// StatusCreated means the environment was created by this call.
	StatusCreated Status = "created"
	// StatusAlreadyExists means the directory was present and left alone.
	StatusAlreadyExists Status = "already-exists"
)

// Runner runs an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Bootstrapper creates a Python virtual environment and installs packages
// into it.
type Bootstrapper struct {
	Python   string
	Packages []string
	Platform platform.Platform
	Runner   Runner
}

// New creates a Bootstrapper that runs commands through os/exec.
func New(python string, packages []string, plat platform.Platform) *Bootstrapper {
	return &Bootstrapper{
		Python:   python,
		Packages: packages,
		Platform: plat,
		Runner:   ExecRunner{},
	}
}

// Interpreter returns the path of the environment's own python executable.
func (b *Bootstrapper) Interpreter(dir string) string {
	if b.Platform.IsWindows() {
		return filepath.Join(dir, "Scripts", "python.exe")
	}
	return filepath.Join(dir, "bin", "python")
}

// Ensure creates the environment at dir unless dir already exists. A failed
// call leaves no directory behind.
func (b *Bootstrapper) Ensure(ctx context.Context, dir string) (Status, error) {
	exists, err := fsutil.Exists(dir)
	if err != nil {
		return "", err
	}
	if exists {
		logger.Debug("Python environment present", logger.Fields{"dir": dir})
		return StatusAlreadyExists, nil
	}

	runner := b.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	logger.Debug("Creating python environment", logger.Fields{"dir": dir, "python": b.Python})
	if out, err := runner.Run(ctx, b.Python, "-m", "venv", dir); err != nil {
		_ = os.RemoveAll(dir)
		return "", errors.Wrapf(ErrVenvCreate, "%s: %v: %s", dir, err, strings.TrimSpace(string(out)))
	}

	if len(b.Packages) == 0 {
		return StatusCreated, nil
	}

	args := append([]string{"-m", "pip", "install"}, b.Packages...)
	logger.Debug("Installing python packages", logger.Fields{"packages": strings.Join(b.Packages, " ")})
	if out, err := runner.Run(ctx, b.Interpreter(dir), args...); err != nil {
		_ = os.RemoveAll(dir)
		return "", errors.Wrapf(ErrVenvInstall, "%s: %v: %s", dir, err, strings.TrimSpace(string(out)))
	}

	return StatusCreated, nil
}
