package workspace

import (
	"context"
	"testing"

	"github.com/lcpu-club/openvscode-farm/internal/audit"
	"github.com/lcpu-club/openvscode-farm/internal/errors"
	"github.com/lcpu-club/openvscode-farm/internal/runtime"
)

func TestTerminator_StopsOnlyCallersWorkspace(t *testing.T) {
	rt := runtime.NewMockRuntime()
	rt.AddContainer("vscs-alice", "a", 40000)
	rt.AddContainer("vscs-bob", "b", 40001)
	term := &Terminator{Runtime: rt, Audit: audit.NewLogger(t.TempDir())}

	if err := term.Terminate(context.Background(), "alice"); err != nil {
		t.Fatalf("Terminate() error = %v", err)
	}

	calls := rt.GetCallsFor("Terminate")
	if len(calls) != 1 || calls[0].Args[0] != "vscs-alice" {
		t.Errorf("Terminate calls = %+v", calls)
	}
	if !rt.HasContainer("vscs-bob") {
		t.Error("bob's workspace must survive")
	}

	events, _ := term.Audit.Events("vscs-alice")
	if len(events) != 1 || events[0].Type != audit.EventStop {
		t.Errorf("audit events = %+v", events)
	}
}

// Stop derives the container from the caller's identity instead of
// stopping one fixed, shared name.
func TestTerminator_UsesIdentityNotFixedName(t *testing.T) {
	rt := runtime.NewMockRuntime()
	rt.AddContainer("vscs-user_id", "x", 40000)
	rt.AddContainer("vscs-carol", "c", 40001)
	term := &Terminator{Runtime: rt}

	if err := term.Terminate(context.Background(), "carol"); err != nil {
		t.Fatalf("Terminate() error = %v", err)
	}
	if !rt.HasContainer("vscs-user_id") {
		t.Error("the literal vscs-user_id container must not be stopped")
	}
	if rt.HasContainer("vscs-carol") {
		t.Error("carol's workspace should be stopped")
	}
}

func TestTerminator_Nonexistent(t *testing.T) {
	rt := runtime.NewMockRuntime()
	term := &Terminator{Runtime: rt}

	if err := term.Terminate(context.Background(), "ghost"); !errors.Is(err, errors.ErrTerminate) {
		t.Errorf("Terminate() error = %v, want terminate error", err)
	}
}

func TestTerminator_ThenInspectFails(t *testing.T) {
	rt := runtime.NewMockRuntime()
	l := newTestLauncher(t, rt)
	term := &Terminator{Runtime: rt}
	ctx := context.Background()

	if _, err := l.Launch(ctx, "alice"); err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if err := term.Terminate(ctx, "alice"); err != nil {
		t.Fatalf("Terminate() error = %v", err)
	}
	if _, err := rt.Inspect(ctx, "vscs-alice"); !errors.Is(err, errors.ErrInspect) {
		t.Errorf("Inspect() after terminate error = %v, want inspect error", err)
	}
}

func TestTerminator_InvalidUserID(t *testing.T) {
	rt := runtime.NewMockRuntime()
	term := &Terminator{Runtime: rt}

	if err := term.Terminate(context.Background(), "../x"); !errors.Is(err, errors.ErrInvalidToken) {
		t.Errorf("Terminate() error = %v, want invalid token", err)
	}
}

func TestTerminator_LeaseHeld(t *testing.T) {
	rt := runtime.NewMockRuntime()
	rt.AddContainer("vscs-alice", "a", 40000)
	leases := &Leases{Dir: t.TempDir()}
	term := &Terminator{Runtime: rt, Leases: leases}

	release, err := leases.Acquire("alice")
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	if err := term.Terminate(context.Background(), "alice"); !errors.Is(err, errors.ErrWorkspaceBusy) {
		t.Errorf("Terminate() error = %v, want workspace busy", err)
	}
}
