// Package system provides abstractions for OS operations to enable testing.
package system

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandExecutor abstracts command execution for testability.
type CommandExecutor interface {
	// Execute runs a command and returns its standard output. A non-zero
	// exit is returned as *CommandError carrying the standard error.
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath reports the resolved path of an executable.
	LookPath(name string) (string, error)
}

// CommandError describes a command that ran and failed.
type CommandError struct {
	Name   string
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	op := e.Name
	if len(e.Args) > 0 {
		op += " " + e.Args[0]
	}
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("%s failed: %v", op, e.Err)
	}
	return fmt.Sprintf("%s failed: %s: %v", op, stderr, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// osExecutor implements CommandExecutor using real OS operations.
type osExecutor struct{}

func (e *osExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return stdout.Bytes(), &CommandError{Name: name, Args: args, Stderr: stderr.String(), Err: err}
	}

	return stdout.Bytes(), nil
}

func (e *osExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// DefaultExecutor returns the default CommandExecutor implementation.
func DefaultExecutor() CommandExecutor {
	return &osExecutor{}
}
