package cmd

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/lcpu-club/openvscode-farm/internal/app"
	"github.com/lcpu-club/openvscode-farm/internal/config"
	"github.com/lcpu-club/openvscode-farm/internal/errors"
)

// newApp builds the application from a configuration. Tests replace it
// to inject a mock runtime.
var newApp = func(cfg *config.Config) (*app.App, error) {
	return app.New(app.WithConfig(cfg))
}

// loadConfig reads the configuration and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigPath: configPath,
		EnvFile:    envFile,
	})
	if err != nil {
		return nil, errors.ConfigError("failed to load configuration", err)
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = dataDirFlag
	}
	if flags.Changed("runtime") {
		cfg.Runtime = runtimeFlag
	}
	if flags.Changed("image") {
		cfg.Image = imageFlag
	}
	if flags.Changed("listen") {
		cfg.Listen = serveListen
	}

	return cfg, nil
}

// loadApp loads the configuration and wires the application.
func loadApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return newApp(cfg)
}

// resolveUser returns the user id given as an argument, or the one carried
// by an access token, verified the same way the server verifies it.
func resolveUser(a *app.App, args []string, token string) (string, error) {
	if token == "" {
		if len(args) == 0 {
			return "", errors.New(errors.KindInternal, errors.ExitGeneralError, "a user id or --token is required")
		}
		if err := config.ValidateUserID(args[0]); err != nil {
			return "", errors.InvalidToken()
		}
		return args[0], nil
	}

	req := &http.Request{Header: http.Header{}}
	req.Header.Set(a.Config.IdentityHeader, token)
	return a.Identity.Resolve(req)
}
