package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lcpu-club/openvscode-farm/internal/logging"
	"github.com/lcpu-club/openvscode-farm/internal/tui"
	"github.com/lcpu-club/openvscode-farm/internal/workspace"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactive workspace picker",
	Long: `Opens an interactive TUI listing workspaces.

Use arrow keys or j/k to navigate, / to filter.

Actions:
  Enter  - Print the URL of the selected workspace
  d      - Stop the selected workspace
  q/Esc  - Quit`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

var pickPlain bool

func init() {
	pickCmd.Flags().BoolVar(&pickPlain, "plain", false, "Print the list without the interactive UI")
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	workspaces, err := a.Runtime.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list workspaces: %w", err)
	}

	if pickPlain {
		fmt.Fprint(cmd.OutOrStdout(), tui.SimpleList(workspaces))
		return nil
	}

	if len(workspaces) == 0 {
		logInfo("No workspaces found.")
		return nil
	}

	result, err := tui.RunPicker(workspaces)
	if err != nil {
		return fmt.Errorf("picker error: %w", err)
	}

	logging.Debug("picker result", "action", result.Action)

	switch result.Action {
	case tui.ActionURL:
		ep, err := a.Runtime.Inspect(ctx, result.Workspace.Name)
		if err != nil {
			return err
		}
		// the running container's own token is the only one that works
		u, err := workspace.BuildRedirectURL(a.Config.ContainerURL, ep.HostPort, ep.Secret)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), u.String())

	case tui.ActionStop:
		if err := a.Terminator.Terminate(ctx, result.UserID); err != nil {
			return err
		}
		logSuccess("Stopped %s", result.Workspace.Name)
	}

	return nil
}
