package system

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MockCall records one Execute invocation.
type MockCall struct {
	Name string
	Args []string

	// Deadline is the context deadline the call ran under, zero if none
	Deadline time.Time
}

// String renders the call as a command line.
func (c MockCall) String() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}

// MockExecutor implements CommandExecutor for testing.
type MockExecutor struct {
	mu sync.Mutex

	// Handler computes the result of a call. When nil, calls succeed with
	// empty output.
	Handler func(name string, args []string) ([]byte, error)

	// Paths maps executables to the path LookPath reports. Missing entries
	// are not found.
	Paths map[string]string

	calls []MockCall
}

// NewMockExecutor creates a MockExecutor with no known executables.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{Paths: make(map[string]string)}
}

func (m *MockExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	deadline, _ := ctx.Deadline()

	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Name: name, Args: append([]string(nil), args...), Deadline: deadline})
	handler := m.Handler
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, &CommandError{Name: name, Args: args, Err: err}
	}
	if handler == nil {
		return nil, nil
	}
	out, err := handler(name, args)
	// A real process is killed once its context ends.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &CommandError{Name: name, Args: args, Err: ctxErr}
	}
	return out, err
}

func (m *MockExecutor) LookPath(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Paths[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("executable %q not found", name)
}

// Calls returns all recorded calls.
func (m *MockExecutor) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}
