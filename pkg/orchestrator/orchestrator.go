// Package orchestrator drives provisioning: for every package in the
// manifest it resolves the version, downloads the release archive if needed,
// normalizes it into the target folder and cleans up after itself.
package orchestrator

import (
	"context"
	"fmt"
	"os"

	"github.com/alpertunga-bile/third-wheel/internal/logger"
	"github.com/alpertunga-bile/third-wheel/pkg/errors"
	"github.com/alpertunga-bile/third-wheel/pkg/fsutil"
	"github.com/alpertunga-bile/third-wheel/pkg/hooks"
	"github.com/alpertunga-bile/third-wheel/pkg/manifest"
	"github.com/alpertunga-bile/third-wheel/pkg/model"
	"github.com/alpertunga-bile/third-wheel/pkg/version"
)

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Provision installs each package into targetDir, in order. A package whose
// install location exists is skipped without touching the network; an
// archive left behind by an interrupted run is reused. The first failure
// aborts the run.
func (o *Orchestrator) Provision(ctx context.Context, targetDir string, descriptors []manifest.Descriptor, opts ProvisionOptions) error {
	if o.Fetcher == nil || o.Normalizer == nil {
		return fmt.Errorf("orchestrator is not configured")
	}

	for _, d := range descriptors {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.provisionOne(ctx, targetDir, d, opts); err != nil {
			return errors.Wrapf(err, "package %s", d.Name)
		}
	}
	return nil
}

func (o *Orchestrator) provisionOne(ctx context.Context, targetDir string, d manifest.Descriptor, opts ProvisionOptions) error {
	emit(o.Hooks, Event{Phase: PhasePreparing, ID: d.Name, Msg: "Preparing " + d.Name})

	installPath := model.InstallLocation(targetDir, d.Name)
	installed, err := fsutil.Exists(installPath)
	if err != nil {
		return err
	}
	if installed {
		emit(o.Hooks, Event{Phase: PhaseSkipped, ID: d.Name, Msg: installPath + " already exists | Skipping ..."})
		return nil
	}

	pkg, err := o.Resolve(ctx, targetDir, d)
	if err != nil {
		return err
	}

	filename := pkg.ArchiveFilename(o.Platform)
	archivePath := pkg.ArchivePath(targetDir, o.Platform)
	logger.Debug("Provisioning", logger.Fields{
		"package": pkg.Name,
		"version": pkg.Version,
		"archive": archivePath,
	})

	if err := o.acquire(ctx, targetDir, filename, archivePath, pkg); err != nil {
		return err
	}

	emit(o.Hooks, Event{Phase: PhaseExtracting, ID: d.Name, Msg: "Extracting " + filename})
	result, err := o.Normalizer.Normalize(ctx, archivePath, targetDir, pkg.ExtractedPath(archivePath), pkg.Name)
	if err != nil {
		return err
	}

	if err := o.install(result.Dir, pkg); err != nil {
		return err
	}

	if d.PostInstall != "" {
		if err := o.runHook(ctx, targetDir, d, pkg, opts); err != nil {
			return err
		}
	}

	leftover, err := fsutil.Exists(archivePath)
	if err != nil {
		return err
	}
	if leftover {
		emit(o.Hooks, Event{Phase: PhaseCleanup, ID: d.Name, Msg: "Removing " + filename})
		if err := os.Remove(archivePath); err != nil {
			return errors.Wrapf(err, "could not remove %s", archivePath)
		}
	}

	emit(o.Hooks, Event{Phase: PhaseDone, ID: d.Name, Msg: "Preparing " + d.Name + " is completed"})
	return nil
}

// acquire makes sure the archive is on disk, downloading it unless a
// previous run already did.
func (o *Orchestrator) acquire(ctx context.Context, targetDir, filename, archivePath string, pkg *model.ResolvedPackage) error {
	present, err := fsutil.Exists(archivePath)
	if err != nil {
		return err
	}
	if present {
		emit(o.Hooks, Event{Phase: PhaseResuming, ID: pkg.Name, Msg: filename + " found, skipping download"})
		return nil
	}

	emit(o.Hooks, Event{Phase: PhaseDownloading, ID: pkg.Name, Msg: "Downloading " + filename})
	if err := fsutil.EnsureDir(targetDir); err != nil {
		return err
	}
	_, err = o.Fetcher.Fetch(ctx, targetDir, filename, pkg)
	return err
}

// install moves the extracted directory to the install location, unless
// extraction already produced it.
func (o *Orchestrator) install(dir string, pkg *model.ResolvedPackage) error {
	exists, err := fsutil.Exists(pkg.InstallLocation)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	emit(o.Hooks, Event{Phase: PhaseInstalling, ID: pkg.Name, Msg: "Moving to " + pkg.InstallLocation})
	if err := fsutil.Move(dir, pkg.InstallLocation); err != nil {
		return errors.Wrapf(err, "could not move %s to %s", dir, pkg.InstallLocation)
	}
	return nil
}

func (o *Orchestrator) runHook(ctx context.Context, targetDir string, d manifest.Descriptor, pkg *model.ResolvedPackage, opts ProvisionOptions) error {
	if o.HookRunner == nil {
		return fmt.Errorf("post_install set but no hook runner configured")
	}
	script, err := hooks.LoadScript(opts.ScriptDir, d.PostInstall)
	if err != nil {
		return err
	}
	emit(o.Hooks, Event{Phase: PhaseHook, ID: d.Name, Msg: "Running post-install hook"})
	return o.HookRunner.Run(ctx, script, hooks.HookContext{
		PackageName:    pkg.Name,
		PackageVersion: pkg.Version,
		InstallPath:    pkg.InstallLocation,
		TargetFolder:   targetDir,
		Platform:       o.Platform.Token(),
	})
}

// Resolve settles the version, extension and filename template of d.
// The resolver is only consulted when the version is not pinned.
func (o *Orchestrator) Resolve(ctx context.Context, targetDir string, d manifest.Descriptor) (*model.ResolvedPackage, error) {
	template, err := o.Platform.Template(d.WinFormat, d.LinuxFormat)
	if err != nil {
		return nil, err
	}

	ext := ""
	if d.HasFileExt() {
		ext = *d.FileExt
	} else if ext, err = o.Platform.DefaultArchiveExt(); err != nil {
		return nil, err
	}

	ver := ""
	if d.HasVersion() {
		ver = *d.Version
	} else {
		if o.Resolver == nil {
			return nil, fmt.Errorf("no version configured and no resolver available")
		}
		emit(o.Hooks, Event{Phase: PhaseResolving, ID: d.Name, Msg: "Fetching latest version of " + d.Name})
		if ver, err = o.Resolver.Latest(ctx, d.GitHubURL); err != nil {
			return nil, err
		}
	}

	return model.NewResolvedPackage(d.Name, d.GitHubURL, ver, ext, template, targetDir), nil
}

// Outdated reports, for every package, the newest tag next to the
// configured version.
func (o *Orchestrator) Outdated(ctx context.Context, targetDir string, descriptors []manifest.Descriptor) ([]VersionReport, error) {
	if o.Resolver == nil {
		return nil, fmt.Errorf("version resolver is not configured")
	}

	reports := make([]VersionReport, 0, len(descriptors))
	for _, d := range descriptors {
		emit(o.Hooks, Event{Phase: PhaseResolving, ID: d.Name, Msg: "Fetching latest version of " + d.Name})
		latest, err := o.Resolver.Latest(ctx, d.GitHubURL)
		if err != nil {
			return nil, errors.Wrapf(err, "package %s", d.Name)
		}
		installed, err := fsutil.Exists(model.InstallLocation(targetDir, d.Name))
		if err != nil {
			return nil, err
		}

		report := VersionReport{Name: d.Name, Latest: latest, Installed: installed}
		if d.HasVersion() {
			report.Configured = *d.Version
			report.Outdated = version.IsNewer(report.Configured, latest)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
