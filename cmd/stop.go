package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/lcpu-club/openvscode-farm/internal/workspace"
)

var stopCmd = &cobra.Command{
	Use:   "stop [user-id]",
	Short: "Stop a user's workspace",
	Long: `Stop a workspace on behalf of a user, exactly as POST /stop would.
The container removes itself once stopped; the data directory is kept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStop,
}

var stopToken string

func init() {
	stopCmd.Flags().StringVar(&stopToken, "token", "", "Access token to read the user id from")
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	userID, err := resolveUser(a, args, stopToken)
	if err != nil {
		return err
	}

	if err := a.Terminator.Terminate(context.Background(), userID); err != nil {
		return err
	}

	logSuccess("Stopped %s", workspace.Name(userID))
	return nil
}
