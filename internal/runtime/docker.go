package runtime

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/lcpu-club/openvscode-farm/internal/errors"
	"github.com/lcpu-club/openvscode-farm/internal/logging"
	"github.com/lcpu-club/openvscode-farm/internal/system"
)

// serverScript execs the IDE server binary of the image with the
// container's positional arguments, so no value is ever interpolated into
// shell text.
const serverScript = `exec ${OPENVSCODE_SERVER_ROOT}/bin/openvscode-server "${@}"`

// secretCmdIndex is the position of the connection token in the
// container's Cmd as recorded by the runtime:
// [sh -c <script> -- --connection-token <secret> ...].
const secretCmdIndex = 5

// DockerRuntime implements the Runtime interface using Docker or Podman.
type DockerRuntime struct {
	// Command is the container command to use (docker or podman)
	Command string

	// ContainerPrefix selects the containers List reports
	ContainerPrefix string

	// Image is the openvscode-server image
	Image string

	// InternalPort is the IDE port inside the container
	InternalPort int

	// WorkspacePath is where the user data directory is mounted
	WorkspacePath string

	// Timeout bounds every runtime invocation (0 = no timeout)
	Timeout time.Duration

	// Exec runs the commands
	Exec system.CommandExecutor
}

// NewDockerRuntime creates a runtime driving the given command.
func NewDockerRuntime(command string, cfg *Config) *DockerRuntime {
	return &DockerRuntime{
		Command:         command,
		ContainerPrefix: cfg.ContainerPrefix,
		Image:           cfg.Image,
		InternalPort:    cfg.InternalPort,
		WorkspacePath:   cfg.WorkspacePath,
		Timeout:         cfg.Timeout,
		Exec:            cfg.executor(),
	}
}

// Name returns the runtime identifier
func (r *DockerRuntime) Name() string {
	return r.Command
}

// runCmd executes a docker/podman command under the configured timeout
func (r *DockerRuntime) runCmd(ctx context.Context, args ...string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	logging.Debug("running runtime command", "cmd", shellquote.Join(append([]string{r.Command}, redactArgs(args)...)...))

	out, err := r.Exec.Execute(ctx, r.Command, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// redactArgs masks the connection token so it never reaches the logs.
func redactArgs(args []string) []string {
	out := append([]string(nil), args...)
	for i := 0; i < len(out)-1; i++ {
		if out[i] == "--connection-token" {
			out[i+1] = "<redacted>"
		}
	}
	return out
}

// LaunchArgs returns the argument list Launch passes to the runtime.
func (r *DockerRuntime) LaunchArgs(opts LaunchOptions) []string {
	return []string{
		"run",
		"-d",
		"--rm",
		"--name", opts.Name,
		"--init",
		"--entrypoint", "",
		"-p", strconv.Itoa(r.InternalPort),
		"-v", fmt.Sprintf("%s:%s:z,cached", opts.UserDataDir, r.WorkspacePath),
		r.Image,
		"sh", "-c", serverScript, "--",
		"--connection-token", opts.Secret,
		"--host", "0.0.0.0",
		"--enable-remote-auto-shutdown",
	}
}

// InspectArgs returns the argument list Inspect passes to the runtime.
func (r *DockerRuntime) InspectArgs(name string) []string {
	format := fmt.Sprintf(`{{(index (index .NetworkSettings.Ports "%d/tcp") 0).HostPort}} {{ index (index .Config.Cmd) %d }}`,
		r.InternalPort, secretCmdIndex)
	return []string{"inspect", name, "-f", format}
}

// Launch starts the workspace container
func (r *DockerRuntime) Launch(ctx context.Context, opts LaunchOptions) (string, error) {
	logging.Debug("launching container", "name", opts.Name, "runtime", r.Command, "image", r.Image)

	out, err := r.runCmd(ctx, r.LaunchArgs(opts)...)
	if err != nil {
		return "", errors.LaunchFailed(opts.Name, err)
	}

	return strings.TrimSpace(out), nil
}

// Inspect reads back the host port and echoed secret of a workspace
func (r *DockerRuntime) Inspect(ctx context.Context, name string) (*Endpoint, error) {
	out, err := r.runCmd(ctx, r.InspectArgs(name)...)
	if err != nil {
		return nil, errors.InspectFailed(name, err)
	}

	ep, err := ParseInspectOutput(out)
	if err != nil {
		return nil, errors.InspectFailed(name, err)
	}
	return ep, nil
}

// ParseInspectOutput parses "<hostPort> <secret>". Exactly two
// whitespace-separated fields are accepted.
func ParseInspectOutput(out string) (*Endpoint, error) {
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) != 2 {
		return nil, fmt.Errorf("unexpected inspect output: %d fields", len(fields))
	}

	port, err := strconv.Atoi(fields[0])
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("unexpected inspect output: invalid host port")
	}

	return &Endpoint{HostPort: fields[0], Secret: fields[1]}, nil
}

// Terminate stops the workspace; --rm removes it afterwards
func (r *DockerRuntime) Terminate(ctx context.Context, name string) error {
	logging.Debug("stopping container", "container", name)

	if _, err := r.runCmd(ctx, "stop", name); err != nil {
		return errors.TerminateFailed(name, err)
	}
	return nil
}

// List returns all containers whose name carries the workspace prefix
func (r *DockerRuntime) List(ctx context.Context) ([]*ContainerInfo, error) {
	output, err := r.runCmd(ctx, "ps", "-a",
		"--filter", fmt.Sprintf("name=%s", r.ContainerPrefix),
		"--format", "{{.Names}}\t{{.State}}\t{{.Ports}}")
	if err != nil {
		return nil, err
	}

	return parsePsOutput(output, r.ContainerPrefix), nil
}

func parsePsOutput(output, prefix string) []*ContainerInfo {
	var containers []*ContainerInfo
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}

		fields := strings.SplitN(line, "\t", 3)
		name := fields[0]
		// the name filter matches substrings
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		info := &ContainerInfo{Name: name, Status: StatusUnknown}
		if len(fields) > 1 {
			switch strings.ToLower(fields[1]) {
			case "running":
				info.Status = StatusRunning
			case "exited", "stopped", "created", "removing":
				info.Status = StatusStopped
			}
		}
		if len(fields) > 2 {
			info.Ports = fields[2]
		}
		containers = append(containers, info)
	}
	return containers
}

// Ping checks that the engine answers
func (r *DockerRuntime) Ping(ctx context.Context) error {
	_, err := r.runCmd(ctx, "version")
	return err
}

// Ensure DockerRuntime implements Runtime
var _ Runtime = (*DockerRuntime)(nil)
