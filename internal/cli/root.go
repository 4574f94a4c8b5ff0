package cli

import (
	"context"

	"github.com/alpertunga-bile/third-wheel/internal/logger"
	"github.com/alpertunga-bile/third-wheel/internal/ui"
	"github.com/alpertunga-bile/third-wheel/pkg/config"
	"github.com/alpertunga-bile/third-wheel/pkg/fsutil"
	"github.com/alpertunga-bile/third-wheel/pkg/manifest"
	"github.com/alpertunga-bile/third-wheel/pkg/orchestrator"
	"github.com/alpertunga-bile/third-wheel/pkg/platform"
	"github.com/alpertunga-bile/third-wheel/pkg/venv"
)

// RootOptions are the flags of the root command.
type RootOptions struct {
	SetupVenv bool
	DeleteAll bool
	SkipVenv  bool
}

// RunRoot runs the root command: delete everything, bootstrap the
// environment only, or bootstrap and provision every package.
func RunRoot(ctx context.Context, opts RootOptions) error {
	settings, plat, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	m, err := loadManifest()
	if err != nil {
		return err
	}

	return run(ctx, opts, settings, plat, m)
}

// run dispatches on the root flags. Only provisioning needs a supported
// platform; the environment layout always follows the host.
func run(ctx context.Context, opts RootOptions, settings *config.Settings, plat platform.Platform, m *manifest.Manifest) error {
	if opts.DeleteAll {
		return deleteAll(m)
	}

	bootstrapper := venv.New(settings.Python, m.VenvPackages, platform.Detect())
	if opts.SetupVenv {
		return ensureVenv(ctx, bootstrapper, m.VenvFolder)
	}

	if _, err := plat.Family(); err != nil {
		return err
	}
	if !opts.SkipVenv {
		if err := ensureVenv(ctx, bootstrapper, m.VenvFolder); err != nil {
			return err
		}
	}

	return provision(ctx, settings, plat, m)
}

func deleteAll(m *manifest.Manifest) error {
	for _, dir := range []string{m.VenvFolder, m.TargetFolder} {
		ui.Status("Deleting %s", dir)
		if err := fsutil.RemoveTree(dir); err != nil {
			return err
		}
	}
	return nil
}

func ensureVenv(ctx context.Context, b *venv.Bootstrapper, dir string) error {
	exists, err := fsutil.Exists(dir)
	if err != nil {
		return err
	}
	if exists {
		ui.Warning("%s is already created", dir)
		return nil
	}

	ui.Status("Creating %s environment", dir)
	if _, err := b.Ensure(ctx, dir); err != nil {
		ui.Error("Creating %s is failed", dir)
		return err
	}
	if len(b.Packages) > 0 {
		ui.Success("Installed %d python packages", len(b.Packages))
	}
	return nil
}

func provision(ctx context.Context, settings *config.Settings, plat platform.Platform, m *manifest.Manifest) error {
	if err := fsutil.EnsureDir(m.TargetFolder); err != nil {
		return err
	}

	orch := newOrchestrator(settings, plat)
	return orch.Provision(ctx, m.TargetFolder, m.Packages, orchestrator.ProvisionOptions{ScriptDir: m.Dir})
}
