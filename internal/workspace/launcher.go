package workspace

import (
	"context"
	"fmt"
	"net/url"

	"github.com/lcpu-club/openvscode-farm/internal/audit"
	"github.com/lcpu-club/openvscode-farm/internal/config"
	"github.com/lcpu-club/openvscode-farm/internal/errors"
	"github.com/lcpu-club/openvscode-farm/internal/logging"
	"github.com/lcpu-club/openvscode-farm/internal/runtime"
	"github.com/lcpu-club/openvscode-farm/internal/secret"
)

// Result describes a launched workspace.
type Result struct {
	Name        string
	ContainerID string
	HostPort    string
	URL         *url.URL
}

// Launcher starts workspaces: one container launch, one inspect, one URL
// build, with no retries.
type Launcher struct {
	Runtime runtime.Runtime
	Config  *config.Config
	Secrets secret.Source
	Leases  *Leases
	Audit   *audit.Logger // optional
}

// Launch starts the workspace of userID and returns where to reach it.
func (l *Launcher) Launch(ctx context.Context, userID string) (*Result, error) {
	if err := config.ValidateUserID(userID); err != nil {
		return nil, errors.InvalidToken()
	}

	name := Name(userID)
	log := logging.With("workspace", name, "request_id", audit.RequestID(ctx))

	dataDir, err := l.Config.UserDataDir(userID)
	if err != nil {
		return nil, errors.LaunchFailed(name, err)
	}

	token, err := l.Secrets.Generate()
	if err != nil {
		return nil, errors.Wrap(errors.KindInternal, errors.ExitGeneralError, "failed to generate connection token", err)
	}

	release, err := l.Leases.Acquire(userID)
	if err != nil {
		return nil, err
	}
	defer release()

	log.Debug("launching workspace", "data_dir", dataDir)
	id, err := l.Runtime.Launch(ctx, runtime.LaunchOptions{
		Name:        name,
		UserDataDir: dataDir,
		Secret:      token,
	})
	if err != nil {
		l.record(ctx, audit.EventError, name, userID, string(errors.KindOf(err)))
		return nil, err
	}

	ep, err := l.Runtime.Inspect(ctx, name)
	if err != nil {
		l.fail(ctx, name, userID, err)
		return nil, err
	}
	if ep.Secret != token {
		log.Warn("connection token echoed by runtime does not match the generated one")
	}

	u, err := BuildRedirectURL(l.Config.ContainerURL, ep.HostPort, token)
	if err != nil {
		l.fail(ctx, name, userID, err)
		return nil, err
	}

	log.Info("workspace launched", "port", ep.HostPort)
	l.record(ctx, audit.EventLaunch, name, userID, fmt.Sprintf("port=%s", ep.HostPort))

	return &Result{
		Name:        name,
		ContainerID: id,
		HostPort:    ep.HostPort,
		URL:         u,
	}, nil
}

// fail handles a failure after the container was started. With cleanup
// enabled the container is stopped; otherwise it is left running.
func (l *Launcher) fail(ctx context.Context, name, userID string, cause error) {
	l.record(ctx, audit.EventError, name, userID, string(errors.KindOf(cause)))

	if !l.Config.CleanupOnFailure {
		logging.Warn("leaving workspace running after failed launch", "workspace", name)
		return
	}

	// the request may already be cancelled
	if err := l.Runtime.Terminate(context.WithoutCancel(ctx), name); err != nil {
		logging.Warn("failed to clean up workspace", "workspace", name, "error", err)
		return
	}
	l.record(ctx, audit.EventCleanup, name, userID, "")
}

func (l *Launcher) record(ctx context.Context, t audit.EventType, name, userID, details string) {
	if l.Audit == nil {
		return
	}
	if err := l.Audit.Record(ctx, t, name, userID, details); err != nil {
		logging.Warn("failed to write audit event", "workspace", name, "error", err)
	}
}
