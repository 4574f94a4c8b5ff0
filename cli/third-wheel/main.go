package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alpertunga-bile/third-wheel/internal/cli"
	"github.com/alpertunga-bile/third-wheel/pkg/manifest"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	packageFile string
	verbose     bool
	noColor     bool
	osOverride  string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	var opts cli.RootOptions

	cmd := &cobra.Command{
		Use:   "third-wheel",
		Short: "Set up precompiled third-party projects from GitHub releases",
		Long: `third-wheel downloads the release archives listed in a package file,
extracts them and places each package in <target_folder>/<name>.
Packages already present are skipped; an archive left behind by an
interrupted run is reused.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cli.RunRoot(cmd.Context(), opts)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&packageFile, "package_file", manifest.DefaultFile, "the package file (JSON or YAML)")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file path")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().StringVar(&osOverride, "os", "", "provision for this OS instead of the host (windows, linux)")

	cmd.Flags().BoolVar(&opts.SetupVenv, "setup_venv", false, "just create the python environment")
	cmd.Flags().BoolVar(&opts.DeleteAll, "delete_all", false, "delete the python environment and the target folder")
	cmd.Flags().BoolVar(&opts.SkipVenv, "skip_venv", false, "do not create the python environment before provisioning")
	cmd.MarkFlagsMutuallyExclusive("setup_venv", "delete_all", "skip_venv")

	// Set up CLI package variables
	cli.ConfigPath = &configPath
	cli.PackageFile = &packageFile
	cli.Verbose = &verbose
	cli.NoColor = &noColor
	cli.OSOverride = &osOverride

	cmd.AddCommand(
		cli.NewOutdatedCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
