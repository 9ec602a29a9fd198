package runtime

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/lcpu-club/openvscode-farm/internal/errors"
)

// MockRuntime is an in-memory Runtime for testing. Like a real engine it
// refuses a second container with the same name.
type MockRuntime struct {
	mu sync.RWMutex

	// Containers tracks running mock workspaces
	Containers map[string]*mockContainer

	// Errors allows injecting errors for specific operations
	Errors map[string]error

	// InspectOutput overrides the raw inspect output for a container,
	// which is then parsed like real runtime output
	InspectOutput map[string]string

	// NextPort is the host port assigned to the next launch
	NextPort int

	// CallLog records all method calls for verification
	CallLog []MockCall
}

type mockContainer struct {
	opts LaunchOptions
	port int
}

// MockCall represents a recorded method call
type MockCall struct {
	Method string
	Args   []interface{}
}

// NewMockRuntime creates a new mock runtime
func NewMockRuntime() *MockRuntime {
	return &MockRuntime{
		Containers:    make(map[string]*mockContainer),
		Errors:        make(map[string]error),
		InspectOutput: make(map[string]string),
		NextPort:      49153,
		CallLog:       make([]MockCall, 0),
	}
}

func (m *MockRuntime) record(method string, args ...interface{}) {
	m.CallLog = append(m.CallLog, MockCall{Method: method, Args: args})
}

// SetError sets an error to be returned for a specific operation
func (m *MockRuntime) SetError(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[operation] = err
}

// SetInspectOutput sets the raw inspect output for a container
func (m *MockRuntime) SetInspectOutput(name, output string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InspectOutput[name] = output
}

// AddContainer adds a running container to the mock
func (m *MockRuntime) AddContainer(name, secret string, port int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Containers[name] = &mockContainer{
		opts: LaunchOptions{Name: name, Secret: secret},
		port: port,
	}
}

// HasContainer reports whether a container with the name is running
func (m *MockRuntime) HasContainer(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.Containers[name]
	return ok
}

// LaunchOptionsFor returns the options a container was launched with
func (m *MockRuntime) LaunchOptionsFor(name string) (LaunchOptions, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.Containers[name]
	if !ok {
		return LaunchOptions{}, false
	}
	return c.opts, true
}

// GetCalls returns all recorded calls
func (m *MockRuntime) GetCalls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	calls := make([]MockCall, len(m.CallLog))
	copy(calls, m.CallLog)
	return calls
}

// GetCallsFor returns all calls for a specific method
func (m *MockRuntime) GetCallsFor(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var calls []MockCall
	for _, call := range m.CallLog {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// Name returns the runtime identifier
func (m *MockRuntime) Name() string {
	return "mock"
}

// Launch registers a running container
func (m *MockRuntime) Launch(ctx context.Context, opts LaunchOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Launch", opts)

	if err, ok := m.Errors["Launch"]; ok {
		return "", errors.LaunchFailed(opts.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return "", errors.LaunchFailed(opts.Name, err)
	}
	if _, exists := m.Containers[opts.Name]; exists {
		return "", errors.LaunchFailed(opts.Name,
			fmt.Errorf("container name %q is already in use", opts.Name))
	}

	m.Containers[opts.Name] = &mockContainer{opts: opts, port: m.NextPort}
	m.NextPort++

	return "mock-" + opts.Name, nil
}

// Inspect returns the endpoint of a running container
func (m *MockRuntime) Inspect(ctx context.Context, name string) (*Endpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.Errors["Inspect"]; ok {
		return nil, errors.InspectFailed(name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.InspectFailed(name, err)
	}

	out, ok := m.InspectOutput[name]
	if !ok {
		c, exists := m.Containers[name]
		if !exists {
			return nil, errors.InspectFailed(name, fmt.Errorf("no such container: %s", name))
		}
		out = strconv.Itoa(c.port) + " " + c.opts.Secret
	}

	ep, err := ParseInspectOutput(out)
	if err != nil {
		return nil, errors.InspectFailed(name, err)
	}
	return ep, nil
}

// Terminate removes a running container
func (m *MockRuntime) Terminate(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Terminate", name)

	if err, ok := m.Errors["Terminate"]; ok {
		return errors.TerminateFailed(name, err)
	}
	if err := ctx.Err(); err != nil {
		return errors.TerminateFailed(name, err)
	}
	if _, exists := m.Containers[name]; !exists {
		return errors.TerminateFailed(name, fmt.Errorf("no such container: %s", name))
	}

	delete(m.Containers, name)
	delete(m.InspectOutput, name)
	return nil
}

// List returns all mock containers
func (m *MockRuntime) List(ctx context.Context) ([]*ContainerInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.Errors["List"]; ok {
		return nil, err
	}

	var result []*ContainerInfo
	for name, c := range m.Containers {
		if !strings.HasPrefix(name, WorkspacePrefix) {
			continue
		}
		result = append(result, &ContainerInfo{
			Name:   name,
			Status: StatusRunning,
			Ports:  fmt.Sprintf("0.0.0.0:%d->3000/tcp", c.port),
		})
	}
	return result, nil
}

// Ping reports the injected Ping error, if any
func (m *MockRuntime) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err, ok := m.Errors["Ping"]; ok {
		return err
	}
	return nil
}

// Ensure MockRuntime implements Runtime
var _ Runtime = (*MockRuntime)(nil)
