package app

import (
	"github.com/lcpu-club/openvscode-farm/internal/audit"
	"github.com/lcpu-club/openvscode-farm/internal/config"
	"github.com/lcpu-club/openvscode-farm/internal/errors"
	"github.com/lcpu-club/openvscode-farm/internal/identity"
	"github.com/lcpu-club/openvscode-farm/internal/logging"
	"github.com/lcpu-club/openvscode-farm/internal/runtime"
	"github.com/lcpu-club/openvscode-farm/internal/secret"
	"github.com/lcpu-club/openvscode-farm/internal/server"
	"github.com/lcpu-club/openvscode-farm/internal/system"
	"github.com/lcpu-club/openvscode-farm/internal/workspace"
)

// App holds the application dependencies
type App struct {
	Config *config.Config

	// Runtime is the container runtime
	Runtime runtime.Runtime

	Secrets  secret.Source
	Identity identity.Provider

	// Audit is nil when no state directory is configured
	Audit *audit.Logger

	Leases     *workspace.Leases
	Launcher   *workspace.Launcher
	Terminator *workspace.Terminator

	executor system.CommandExecutor
}

// Option is a function that configures the App
type Option func(*App)

// WithConfig sets the configuration
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithRuntime sets a custom runtime
func WithRuntime(r runtime.Runtime) Option {
	return func(a *App) {
		a.Runtime = r
	}
}

// WithSecrets sets a custom secret source
func WithSecrets(s secret.Source) Option {
	return func(a *App) {
		a.Secrets = s
	}
}

// WithIdentity sets a custom identity provider
func WithIdentity(p identity.Provider) Option {
	return func(a *App) {
		a.Identity = p
	}
}

// WithExecutor sets the executor the runtime is driven through
func WithExecutor(e system.CommandExecutor) Option {
	return func(a *App) {
		a.executor = e
	}
}

// New wires the application from its configuration. Dependencies not
// supplied as options are built from Config.
func New(opts ...Option) (*App, error) {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}

	if a.Config == nil {
		a.Config = config.Default()
	}
	if err := a.Config.Validate(); err != nil {
		return nil, errors.ConfigError("invalid configuration", err)
	}

	if a.Runtime == nil {
		rt, err := runtime.New(a.runtimeConfig())
		if err != nil {
			return nil, errors.ConfigError("failed to initialize container runtime", err)
		}
		a.Runtime = rt
	}

	if a.Secrets == nil {
		a.Secrets = secret.New()
	}

	if a.Identity == nil {
		p, err := identity.NewProvider(a.Config)
		if err != nil {
			return nil, errors.ConfigError("failed to initialize identity provider", err)
		}
		a.Identity = p
	}

	if a.Config.StateDir != "" {
		a.Audit = audit.NewLogger(a.Config.StateDir)
	}

	a.Leases = &workspace.Leases{Dir: a.Config.LockDir}
	a.Launcher = &workspace.Launcher{
		Runtime: a.Runtime,
		Config:  a.Config,
		Secrets: a.Secrets,
		Leases:  a.Leases,
		Audit:   a.Audit,
	}
	a.Terminator = &workspace.Terminator{
		Runtime: a.Runtime,
		Leases:  a.Leases,
		Audit:   a.Audit,
	}

	logging.Debug("application initialized",
		"runtime", a.Runtime.Name(),
		"identity", a.Config.IdentityMode,
		"lease", a.Config.LockDir != "",
		"audit", a.Audit != nil)

	return a, nil
}

func (a *App) runtimeConfig() *runtime.Config {
	return &runtime.Config{
		Type:            runtime.RuntimeType(a.Config.Runtime),
		ContainerPrefix: workspace.Prefix,
		Image:           a.Config.Image,
		InternalPort:    a.Config.InternalPort,
		WorkspacePath:   a.Config.WorkspacePath,
		Timeout:         a.Config.RuntimeTimeout,
		Executor:        a.executor,
	}
}

// DockerRuntime returns a command-line runtime for rendering launch
// commands, regardless of the runtime actually in use.
func (a *App) DockerRuntime() *runtime.DockerRuntime {
	if rt, ok := a.Runtime.(*runtime.DockerRuntime); ok {
		return rt
	}
	command := a.Config.Runtime
	if command == string(runtime.RuntimeAuto) || command == "" {
		command = string(runtime.RuntimeDocker)
	}
	return runtime.NewDockerRuntime(command, a.runtimeConfig())
}

// Server builds the HTTP server
func (a *App) Server() *server.Server {
	return server.New(&server.Config{
		ListenAddr: a.Config.Listen,
		Identity:   a.Identity,
		Launcher:   a.Launcher,
		Terminator: a.Terminator,
		Runtime:    a.Runtime,
		DataDir:    a.Config.DataDir,
		// launch, inspect and a cleanup stop each run under the runtime timeout
		RequestTimeout: 3 * a.Config.RuntimeTimeout,
	})
}
