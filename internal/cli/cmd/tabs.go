package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bnema/careshell/internal/application/usecase"
	"github.com/bnema/careshell/internal/cli/styles"
	"github.com/bnema/careshell/internal/domain/entity"
)

var tabsJSON bool

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "Inspect stored workspaces",
	Long: `Inspect and clear the tab snapshots persisted for each client.

Snapshots are written by 'careshell serve' whenever a client opens,
activates or closes a tab.`,
}

var tabsListCmd = &cobra.Command{
	Use:   "list [client]",
	Short: "List stored workspaces, or the tabs of one client",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTabsList,
}

var tabsClearCmd = &cobra.Command{
	Use:   "clear <client>",
	Short: "Delete a client's stored workspace",
	Long: `Delete a client's stored workspace.

A running server keeps the client's open tabs in memory until the
client's workspace is restored again.`,
	Args: cobra.ExactArgs(1),
	RunE: runTabsClear,
}

var tabsSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of a stored snapshot",
	Args:  cobra.NoArgs,
	RunE:  runTabsSchema,
}

func init() {
	tabsListCmd.Flags().BoolVar(&tabsJSON, "json", false, "output as JSON")
	tabsCmd.AddCommand(tabsListCmd, tabsClearCmd, tabsSchemaCmd)
	rootCmd.AddCommand(tabsCmd)
}

type storedWorkspaceJSON struct {
	ClientID string         `json:"clientId"`
	Key      string         `json:"key"`
	Readable bool           `json:"readable"`
	Snapshot *entity.TabSet `json:"snapshot,omitempty"`
}

func runTabsList(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	out := cmd.OutOrStdout()
	renderer := styles.NewTabsCLIRenderer(app.Theme)

	var items []usecase.StoredWorkspace
	if len(args) == 1 {
		ws, err := app.StoredWorkspacesUC.Get(app.Ctx(), args[0])
		if err != nil {
			return fmt.Errorf("client %s: %w", args[0], err)
		}
		if !tabsJSON {
			_, err = fmt.Fprintln(out, renderer.RenderWorkspace(*ws))
			return err
		}
		items = []usecase.StoredWorkspace{*ws}
	} else {
		var err error
		items, err = app.StoredWorkspacesUC.List(app.Ctx())
		if err != nil {
			return err
		}
		if !tabsJSON {
			_, err = fmt.Fprintln(out, renderer.RenderList(items))
			return err
		}
	}

	return writeWorkspacesJSON(out, items)
}

func writeWorkspacesJSON(out io.Writer, items []usecase.StoredWorkspace) error {
	rows := make([]storedWorkspaceJSON, 0, len(items))
	for _, ws := range items {
		rows = append(rows, storedWorkspaceJSON{
			ClientID: ws.ClientID,
			Key:      ws.Key,
			Readable: ws.Readable(),
			Snapshot: ws.Tabs,
		})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func runTabsClear(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	renderer := styles.NewTabsCLIRenderer(app.Theme)

	if err := app.StoredWorkspacesUC.Clear(app.Ctx(), args[0]); err != nil {
		return fmt.Errorf("client %s: %w", args[0], err)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderCleared(args[0]))
	return err
}

func runTabsSchema(cmd *cobra.Command, _ []string) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(usecase.SnapshotSchema())
}
