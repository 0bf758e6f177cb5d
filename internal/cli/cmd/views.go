package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/careshell/internal/cli/styles"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List the record screens rendered natively",
	Long: `List the paths resolved to a registered record screen.

Any other path opened as a tab is rendered in a frame.`,
	Args: cobra.NoArgs,
	RunE: runViews,
}

func init() {
	rootCmd.AddCommand(viewsCmd)
}

func runViews(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	renderer := styles.NewTabsCLIRenderer(app.Theme)
	_, err := fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderViews(app.Views.Routes()))
	return err
}
