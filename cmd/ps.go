package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lcpu-club/openvscode-farm/internal/runtime"
	"github.com/lcpu-club/openvscode-farm/internal/workspace"
)

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List all workspaces",
	Args:  cobra.NoArgs,
	RunE:  runPs,
}

func init() {
	rootCmd.AddCommand(psCmd)
}

func runPs(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	workspaces, err := a.Runtime.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list workspaces: %w", err)
	}

	if len(workspaces) == 0 {
		logInfo("No workspaces found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tUSER\tSTATUS\tPORTS")
	fmt.Fprintln(w, "----\t----\t------\t-----")

	for _, ws := range workspaces {
		user, _ := workspace.UserID(ws.Name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ws.Name, user, formatStatus(ws.Status), ws.Ports)
	}

	return w.Flush()
}

func formatStatus(status runtime.ContainerStatus) string {
	switch status {
	case runtime.StatusRunning:
		return "✓ running"
	case runtime.StatusStopped:
		return "● stopped"
	default:
		return string(status)
	}
}
