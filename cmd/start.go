package cmd

import (
	"context"
	"fmt"

	shellquote "github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/lcpu-club/openvscode-farm/internal/runtime"
	"github.com/lcpu-club/openvscode-farm/internal/workspace"
)

var startCmd = &cobra.Command{
	Use:   "start [user-id]",
	Short: "Launch a user's workspace and print its URL",
	Long: `Launch a workspace on behalf of a user, exactly as GET /start would,
and print the URL to open.

The user is given either as an argument or as an access token (--token).
With --print-cmd the runtime command is printed instead of run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStart,
}

var (
	startToken    string
	startPrintCmd bool
)

func init() {
	startCmd.Flags().StringVar(&startToken, "token", "", "Access token to read the user id from")
	startCmd.Flags().BoolVar(&startPrintCmd, "print-cmd", false, "Print the runtime command instead of running it")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	userID, err := resolveUser(a, args, startToken)
	if err != nil {
		return err
	}

	if startPrintCmd {
		dataDir, err := a.Config.UserDataDir(userID)
		if err != nil {
			return err
		}
		rt := a.DockerRuntime()
		argv := append([]string{rt.Command}, rt.LaunchArgs(runtime.LaunchOptions{
			Name:        workspace.Name(userID),
			UserDataDir: dataDir,
			Secret:      "<token>",
		})...)
		fmt.Fprintln(cmd.OutOrStdout(), shellquote.Join(argv...))
		return nil
	}

	res, err := a.Launcher.Launch(context.Background(), userID)
	if err != nil {
		return err
	}

	logSuccess("Started %s on port %s", res.Name, res.HostPort)
	fmt.Fprintln(cmd.OutOrStdout(), res.URL.String())
	return nil
}
