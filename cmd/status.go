package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lcpu-club/openvscode-farm/internal/errors"
	"github.com/lcpu-club/openvscode-farm/internal/health"
	"github.com/lcpu-club/openvscode-farm/internal/tui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show farm health",
	Long: `Check that the container runtime answers and count running workspaces.
Exits non-zero when the farm cannot launch workspaces.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "output-json", false, "Print the report as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	report := health.Check(context.Background(), a.Runtime, a.Config.DataDir)

	if statusJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderStatus(report, a.Config.Listen))
	}

	if !report.Healthy() {
		return errors.New(errors.KindInternal, errors.ExitGeneralError, "farm is unhealthy")
	}
	return nil
}
