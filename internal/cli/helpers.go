// Package cli implements the third-wheel commands. The cobra tree itself is
// assembled in cli/third-wheel.
package cli

import (
	"context"
	"os"

	"github.com/alpertunga-bile/third-wheel/internal/logger"
	"github.com/alpertunga-bile/third-wheel/internal/ui"
	"github.com/alpertunga-bile/third-wheel/pkg/archive"
	"github.com/alpertunga-bile/third-wheel/pkg/config"
	"github.com/alpertunga-bile/third-wheel/pkg/download"
	"github.com/alpertunga-bile/third-wheel/pkg/errors"
	"github.com/alpertunga-bile/third-wheel/pkg/hooks"
	"github.com/alpertunga-bile/third-wheel/pkg/httpclient"
	"github.com/alpertunga-bile/third-wheel/pkg/manifest"
	"github.com/alpertunga-bile/third-wheel/pkg/orchestrator"
	"github.com/alpertunga-bile/third-wheel/pkg/platform"
	"github.com/alpertunga-bile/third-wheel/pkg/version"
)

// These variables will be set by the main package
var (
	ConfigPath  *string
	PackageFile *string
	Verbose     *bool
	NoColor     *bool
	OSOverride  *string
)

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// loadSettings reads tool settings and applies command-line overrides.
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(deref(ConfigPath))
	if err != nil {
		return nil, err
	}

	if deref(Verbose) {
		settings.LogLevel = "debug"
	}
	if deref(NoColor) {
		settings.NoColor = true
	}
	if osName := deref(OSOverride); osName != "" {
		settings.OS = osName
	}
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}
	return settings, nil
}

// setup loads settings, initializes logging and output, and settles the
// platform for the run. Whether the platform is supported is checked by the
// modes that provision.
func setup() (*config.Settings, platform.Platform, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, platform.Platform{}, err
	}

	logger.InitLogger(settings.LogLevel)
	ui.Init(settings.NoColor)

	plat := settings.Platform()
	logger.Debug("Settings loaded", logger.Fields{
		"platform":     plat.String(),
		"http_timeout": settings.HTTPTimeout.String(),
		"python":       settings.Python,
	})
	return settings, plat, nil
}

func loadManifest() (*manifest.Manifest, error) {
	path := deref(PackageFile)
	if path == "" {
		path = manifest.DefaultFile
	}
	return manifest.Load(path)
}

// spinnerResolver shows a spinner while the latest tag is fetched.
type spinnerResolver struct {
	resolver orchestrator.VersionResolver
}

func (s spinnerResolver) Latest(ctx context.Context, repoURL string) (string, error) {
	var latest string
	err := ui.WithSpinner("Fetching latest version from "+repoURL, func() error {
		var err error
		latest, err = s.resolver.Latest(ctx, repoURL)
		return err
	})
	return latest, err
}

func newOrchestrator(settings *config.Settings, plat platform.Platform) *orchestrator.Orchestrator {
	client := httpclient.New(httpclient.Options{
		Timeout:   settings.HTTPTimeout,
		UserAgent: settings.UserAgent,
		Token:     settings.GitHubToken,
	})

	return &orchestrator.Orchestrator{
		Resolver:   spinnerResolver{resolver: version.NewResolver(client)},
		Fetcher:    download.NewFetcher(client, os.Stderr),
		Normalizer: archive.NewManager(),
		HookRunner: hooks.NewTengoExecutor(),
		Platform:   plat,
		Hooks:      orchestrator.Hooks{OnEvent: printEvent},
	}
}

// printEvent renders orchestrator progress as status lines.
func printEvent(e orchestrator.Event) {
	switch e.Phase {
	case orchestrator.PhaseSkipped:
		ui.Warning("%s", e.Msg)
	case orchestrator.PhaseDone:
		ui.Success("%s", e.Msg)
	case orchestrator.PhaseResolving, orchestrator.PhaseCleanup:
		logger.Debug(e.Msg, logger.Fields{"package": e.ID, "phase": e.Phase})
	default:
		ui.Status("%s", e.Msg)
	}
}
