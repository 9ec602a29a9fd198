package system

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestOSExecutor_Execute(t *testing.T) {
	e := &osExecutor{}
	if _, err := e.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	out, err := e.Execute(context.Background(), "sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if strings.TrimSpace(string(out)) != "out" {
		t.Errorf("stdout = %q, stderr must not be mixed in", out)
	}
}

func TestOSExecutor_Failure(t *testing.T) {
	e := &osExecutor{}
	if _, err := e.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	_, err := e.Execute(context.Background(), "sh", "-c", "echo 'No such container: vscs-x' >&2; exit 1")
	if err == nil {
		t.Fatal("Execute() should fail")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("error type = %T, want *CommandError", err)
	}
	if !strings.Contains(cmdErr.Stderr, "No such container") {
		t.Errorf("Stderr = %q", cmdErr.Stderr)
	}
	if !strings.Contains(err.Error(), "sh -c failed") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestOSExecutor_Timeout(t *testing.T) {
	e := &osExecutor{}
	if _, err := e.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := e.Execute(ctx, "sleep", "5")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Execute() error = %v, want deadline exceeded", err)
	}
}

func TestMockExecutor(t *testing.T) {
	m := NewMockExecutor()
	m.Paths["docker"] = "/usr/bin/docker"
	m.Handler = func(name string, args []string) ([]byte, error) {
		if args[0] == "inspect" {
			return []byte("49213 abc123\n"), nil
		}
		return nil, nil
	}

	out, err := m.Execute(context.Background(), "docker", "inspect", "vscs-alice")
	if err != nil || string(out) != "49213 abc123\n" {
		t.Errorf("Execute() = %q, %v", out, err)
	}

	calls := m.Calls()
	if len(calls) != 1 || calls[0].String() != "docker inspect vscs-alice" {
		t.Errorf("Calls() = %v", calls)
	}

	if _, err := m.LookPath("podman"); err == nil {
		t.Error("LookPath(podman) should fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Execute(ctx, "docker", "ps"); !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() on cancelled context = %v", err)
	}
}

func TestDefaultExecutor_LookPathMissing(t *testing.T) {
	if _, err := DefaultExecutor().LookPath("vscs-farm-no-such-binary"); err == nil {
		t.Error("LookPath() of a missing binary should fail")
	}
}

func TestMockExecutor_Deadline(t *testing.T) {
	m := NewMockExecutor()
	m.Handler = func(name string, args []string) ([]byte, error) {
		time.Sleep(50 * time.Millisecond)
		return []byte("ok"), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	if _, err := m.Execute(ctx, "docker", "version"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Execute() past deadline = %v, want deadline exceeded", err)
	}

	want, _ := ctx.Deadline()
	if calls := m.Calls(); len(calls) != 1 || !calls[0].Deadline.Equal(want) {
		t.Errorf("Calls() = %+v, want deadline %v", calls, want)
	}

	if _, err := m.Execute(context.Background(), "docker", "version"); err != nil {
		t.Fatalf("Execute() without deadline error = %v", err)
	}
	if calls := m.Calls(); !calls[1].Deadline.IsZero() {
		t.Errorf("Deadline = %v, want zero", calls[1].Deadline)
	}
}
