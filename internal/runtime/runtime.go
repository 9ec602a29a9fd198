package runtime

import (
	"context"
)

// ContainerStatus represents the state of a container
type ContainerStatus string

const (
	StatusRunning ContainerStatus = "running"
	StatusStopped ContainerStatus = "stopped"
	StatusUnknown ContainerStatus = "unknown"
)

// ContainerInfo holds information about a workspace container
type ContainerInfo struct {
	Name   string
	Status ContainerStatus
	Ports  string
}

// Endpoint is the network endpoint of a running workspace as reported by
// the runtime.
type Endpoint struct {
	HostPort string
	Secret   string
}

// LaunchOptions holds options for launching a workspace container
type LaunchOptions struct {
	Name        string // container name, must be unique
	UserDataDir string // host directory mounted as the workspace
	Secret      string // connection token required by the IDE server
}

// Runtime is the interface that container backends must implement.
// All methods should be safe for concurrent use and must return errors
// from the internal/errors package: LaunchFailed, InspectFailed and
// TerminateFailed respectively.
type Runtime interface {
	// Name returns the runtime identifier (e.g., "docker", "podman")
	Name() string

	// Launch starts a detached, self-removing workspace container and
	// returns its id. A name collision is a launch failure.
	Launch(ctx context.Context, opts LaunchOptions) (string, error)

	// Inspect reads the published host port and the echoed connection
	// secret of a running workspace.
	Inspect(ctx context.Context, name string) (*Endpoint, error)

	// Terminate stops a workspace. Self-removal frees the name.
	Terminate(ctx context.Context, name string) error

	// List returns all workspace containers managed by this runtime
	List(ctx context.Context) ([]*ContainerInfo, error)

	// Ping checks that the runtime is reachable
	Ping(ctx context.Context) error
}
