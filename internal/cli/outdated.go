package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/alpertunga-bile/third-wheel/internal/logger"
	"github.com/alpertunga-bile/third-wheel/internal/ui"
	"github.com/alpertunga-bile/third-wheel/pkg/errors"
	"github.com/alpertunga-bile/third-wheel/pkg/manifest"
	"github.com/alpertunga-bile/third-wheel/pkg/orchestrator"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// TabWidth is the padding used in table output.
const TabWidth = 2

// NewOutdatedCmd creates the outdated command.
func NewOutdatedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outdated [package...]",
		Short: "Compare configured versions with the latest release tags",
		Long: `Fetch the latest tag of every package in the package file and show
it next to the configured version. Packages without a pinned version follow
the latest tag and are never reported as outdated. Installed packages are not
upgraded in place: delete the package folder to provision the new version.
Pass package names to check only those.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOutdated(cmd.Context(), args)
		},
	}

	return cmd
}

func runOutdated(ctx context.Context, names []string) error {
	settings, plat, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	m, err := loadManifest()
	if err != nil {
		return err
	}

	descriptors, err := selectPackages(m, names)
	if err != nil {
		return err
	}

	orch := newOrchestrator(settings, plat)
	reports, err := orch.Outdated(ctx, m.TargetFolder, descriptors)
	if err != nil {
		return err
	}

	printReports(reports)
	return nil
}

// selectPackages returns the named descriptors in argument order, or every
// package when names is empty.
func selectPackages(m *manifest.Manifest, names []string) ([]manifest.Descriptor, error) {
	if len(names) == 0 {
		return m.Packages, nil
	}
	selected := make([]manifest.Descriptor, 0, len(names))
	for _, name := range names {
		d, ok := m.Package(name)
		if !ok {
			return nil, errors.Wrapf(manifest.ErrUnknownPackage, "%s", name)
		}
		selected = append(selected, d)
	}
	return selected, nil
}

func printReports(reports []orchestrator.VersionReport) {
	w := tabwriter.NewWriter(ui.Output(), 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(w, "PACKAGE\tCONFIGURED\tLATEST\tINSTALLED\tSTATUS")

	outdated := 0
	for _, r := range reports {
		configured := r.Configured
		if configured == "" {
			configured = "latest"
		}
		installed := "no"
		if r.Installed {
			installed = "yes"
		}
		status := "up to date"
		if r.Outdated {
			outdated++
			status = color.YellowString("outdated")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Name, configured, r.Latest, installed, status)
	}
	_ = w.Flush()

	if outdated > 0 {
		ui.Warning("%d of %d packages have a newer release", outdated, len(reports))
		ui.Muted("Update the version in the package file and delete the package folder to install it.")
	}
}
