package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lcpu-club/openvscode-farm/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
	configPath string
	envFile    string

	// overrides for the loaded configuration
	dataDirFlag string
	runtimeFlag string
	imageFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "vscs-farm",
	Short: "Per-user openvscode-server workspaces on demand",
	Long: `vscs-farm launches one openvscode-server container per user.

Each workspace is:
  - named vscs-<userId> and unique per user
  - backed by <data_dir>/<userId> mounted at /home/workspace
  - protected by a fresh random connection token

Run "vscs-farm serve" behind an authenticating reverse proxy that forwards
the user's access token in X-Forwarded-Access-Token.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	flags.StringVarP(&configPath, "config", "c", "", "Path to config file (default /etc/vscs-farm/config.toml if present)")
	flags.StringVar(&envFile, "env-file", "", "Load environment variables from a dotenv file")
	flags.StringVar(&dataDirFlag, "data-dir", "", "Override the workspace data directory")
	flags.StringVar(&runtimeFlag, "runtime", "", "Override the container runtime (auto, docker, podman)")
	flags.StringVar(&imageFlag, "image", "", "Override the openvscode-server image")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
)
