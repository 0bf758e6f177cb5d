// Package cmd provides the Cobra commands of careshell.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/careshell/internal/cli"
	"github.com/bnema/careshell/internal/cli/styles"
	"github.com/bnema/careshell/internal/domain/build"
)

var (
	app        *cli.App
	buildInfo  build.Info
	configFile string
	rootCmd    = &cobra.Command{
		Use:   "careshell",
		Short: "Tabbed workspace shell for care facility record screens",
		Long: `careshell serves a tabbed workspace in front of the record screens of a
care facility application.

Each browser client gets its own set of open tabs, kept in sync with the
address bar and restored after a reload.

Use 'careshell serve' to start the HTTP server, or explore the
subcommands to inspect stored workspaces.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "schema":
				return nil
			}

			var err error
			app, err = cli.NewApp(configFile)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/careshell/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.NewTabsCLIRenderer(styles.NewTheme()).RenderError(err))
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
