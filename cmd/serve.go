package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lcpu-club/openvscode-farm/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server that launches and stops workspaces.

Routes:
  GET  /start    launch the caller's workspace and redirect to it
  POST /stop     stop the caller's workspace
  GET  /healthz  runtime reachability

The caller is identified by the token in the identity header
(X-Forwarded-Access-Token by default). In "header" mode the token is
trusted as forwarded by the reverse proxy; in "hmac" mode its signature
is verified with hmac_secret.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveListen string

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Address to listen on (default 127.0.0.1:3030)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	server := a.Server()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Start returns once Stop has drained in-flight requests
	go func() {
		<-sigCh
		logging.Info("shutting down server")
		_ = server.Stop()
	}()

	logInfo("Starting vscs-farm on %s", a.Config.Listen)
	logInfo("Runtime: %s, image: %s", a.Runtime.Name(), a.Config.Image)
	logInfo("Data dir: %s", a.Config.DataDir)
	if !a.Config.CleanupOnFailure {
		logWarning("cleanup_on_failure is off: failed launches leave containers running")
	}
	if a.Audit != nil {
		logInfo("Audit log: %s", a.Config.StateDir)
	}

	return server.Start()
}
