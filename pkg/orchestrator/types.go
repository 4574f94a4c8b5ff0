//go:generate mockgen -destination=./mocks/orchestrator.go -package=mocks . VersionResolver,Fetcher,Normalizer,HookRunner

package orchestrator

import (
	"context"

	"github.com/alpertunga-bile/third-wheel/pkg/archive"
	"github.com/alpertunga-bile/third-wheel/pkg/hooks"
	"github.com/alpertunga-bile/third-wheel/pkg/model"
	"github.com/alpertunga-bile/third-wheel/pkg/platform"
)

// VersionResolver finds the newest published version of a repository.
type VersionResolver interface {
	Latest(ctx context.Context, repoURL string) (string, error)
}

// Fetcher downloads a release asset into dir.
type Fetcher interface {
	Fetch(ctx context.Context, dir, filename string, pkg *model.ResolvedPackage) (string, error)
}

// Normalizer extracts an archive into a single package directory.
type Normalizer interface {
	Normalize(ctx context.Context, archivePath, targetDir, extractedPath, packageName string) (archive.Result, error)
}

// HookRunner runs post-install scripts.
type HookRunner interface {
	Run(ctx context.Context, script string, hc hooks.HookContext) error
}

// Orchestrator provisions packages into a target folder.
type Orchestrator struct {
	Resolver   VersionResolver
	Fetcher    Fetcher
	Normalizer Normalizer
	HookRunner HookRunner
	Platform   platform.Platform
	Hooks      Hooks // Hooks for progress and event notifications
}

// Event phases.
const (
	PhasePreparing   = "preparing"
	PhaseSkipped     = "skipped"
	PhaseResolving   = "resolving"
	PhaseDownloading = "downloading"
	PhaseResuming    = "resuming"
	PhaseExtracting  = "extracting"
	PhaseInstalling  = "installing"
	PhaseHook        = "hook"
	PhaseCleanup     = "cleanup"
	PhaseDone        = "done"
)

// Event represents a simple progress notification.
type Event struct {
	Phase string
	ID    string // package name
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// ProvisionOptions control a provisioning run.
type ProvisionOptions struct {
	// ScriptDir resolves relative post_install script paths, usually the
	// manifest's directory.
	ScriptDir string
}

// VersionReport compares a package's configured version with the newest tag.
type VersionReport struct {
	Name       string
	Configured string // empty when the manifest follows the latest tag
	Latest     string
	Installed  bool
	Outdated   bool
}
