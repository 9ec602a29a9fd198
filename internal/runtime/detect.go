package runtime

import (
	"fmt"
	"time"

	"github.com/lcpu-club/openvscode-farm/internal/logging"
	"github.com/lcpu-club/openvscode-farm/internal/system"
)

// RuntimeType identifies which container runtime to use
type RuntimeType string

const (
	RuntimeDocker RuntimeType = "docker"
	RuntimePodman RuntimeType = "podman"
	RuntimeAuto   RuntimeType = "auto"
)

// WorkspacePrefix is prepended to user ids to form container names
const WorkspacePrefix = "vscs-"

// Config holds runtime configuration
type Config struct {
	// Type specifies which runtime to use (or "auto" for auto-detection)
	Type RuntimeType

	// ContainerPrefix selects the containers that belong to the farm
	ContainerPrefix string

	Image         string
	InternalPort  int
	WorkspacePath string

	// Timeout bounds each runtime invocation
	Timeout time.Duration

	// Executor runs the runtime binary; nil means the OS executor
	Executor system.CommandExecutor
}

// DefaultConfig returns the default runtime configuration
func DefaultConfig() *Config {
	return &Config{
		Type:            RuntimeAuto,
		ContainerPrefix: WorkspacePrefix,
		Image:           "gitpod/openvscode-server",
		InternalPort:    3000,
		WorkspacePath:   "/home/workspace",
		Timeout:         60 * time.Second,
	}
}

func (c *Config) executor() system.CommandExecutor {
	if c.Executor != nil {
		return c.Executor
	}
	return system.DefaultExecutor()
}

// Detect determines which container runtime is available on the system.
// Docker is preferred, podman is the fallback for hosts without it.
func Detect(exec system.CommandExecutor) (RuntimeType, error) {
	if _, err := exec.LookPath("docker"); err == nil {
		logging.Debug("detected docker")
		return RuntimeDocker, nil
	}

	if _, err := exec.LookPath("podman"); err == nil {
		logging.Debug("detected podman")
		return RuntimePodman, nil
	}

	return "", fmt.Errorf("no supported container runtime found (tried: docker, podman)")
}

// New creates a new Runtime based on the configuration.
// If Type is RuntimeAuto, it auto-detects the best runtime.
func New(cfg *Config) (Runtime, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	runtimeType := cfg.Type
	if runtimeType == RuntimeAuto || runtimeType == "" {
		detected, err := Detect(cfg.executor())
		if err != nil {
			return nil, err
		}
		runtimeType = detected
	}

	logging.Debug("creating runtime", "type", runtimeType)

	switch runtimeType {
	case RuntimeDocker, RuntimePodman:
		return NewDockerRuntime(string(runtimeType), cfg), nil
	default:
		return nil, fmt.Errorf("unknown runtime type: %s", runtimeType)
	}
}
