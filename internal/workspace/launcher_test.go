package workspace

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/lcpu-club/openvscode-farm/internal/audit"
	"github.com/lcpu-club/openvscode-farm/internal/config"
	"github.com/lcpu-club/openvscode-farm/internal/errors"
	"github.com/lcpu-club/openvscode-farm/internal/identity"
	"github.com/lcpu-club/openvscode-farm/internal/runtime"
	"github.com/lcpu-club/openvscode-farm/internal/secret"
	"github.com/lcpu-club/openvscode-farm/internal/system"
)

func newTestLauncher(t *testing.T, rt runtime.Runtime) *Launcher {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	return &Launcher{
		Runtime: rt,
		Config:  cfg,
		Secrets: secret.Fixed("abc123"),
		Leases:  &Leases{},
		Audit:   audit.NewLogger(t.TempDir()),
	}
}

func TestLauncher_EndToEnd(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.Handler = func(name string, args []string) ([]byte, error) {
		switch args[0] {
		case "run":
			return []byte("c0ffee\n"), nil
		case "inspect":
			return []byte("49213 abc123\n"), nil
		}
		return nil, fmt.Errorf("unexpected command %s", args[0])
	}
	rtCfg := runtime.DefaultConfig()
	rtCfg.Executor = exec
	l := newTestLauncher(t, runtime.NewDockerRuntime("docker", rtCfg))

	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"userId":"alice"}`))
	userID, err := identity.ReadUserID("h." + payload + ".s")
	if err != nil {
		t.Fatalf("ReadUserID() error = %v", err)
	}

	res, err := l.Launch(context.Background(), userID)
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}

	if res.Name != "vscs-alice" {
		t.Errorf("Name = %q, want vscs-alice", res.Name)
	}
	if res.ContainerID != "c0ffee" {
		t.Errorf("ContainerID = %q", res.ContainerID)
	}
	if got := res.URL.String(); got != "http://localhost:49213/?tkn=abc123" {
		t.Errorf("URL = %q", got)
	}

	calls := exec.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected run and inspect, got %v", calls)
	}
	run := strings.Join(calls[0].Args, " ")
	wantMount := filepath.Join(l.Config.DataDir, "alice") + ":/home/workspace:z,cached"
	if !strings.Contains(run, "--name vscs-alice") || !strings.Contains(run, wantMount) {
		t.Errorf("run command = %q", run)
	}
	if !strings.Contains(run, "--connection-token abc123") {
		t.Errorf("run command does not carry the token: %q", run)
	}
	if calls[1].Args[0] != "inspect" || calls[1].Args[1] != "vscs-alice" {
		t.Errorf("inspect command = %v", calls[1])
	}

	events, _ := l.Audit.Events("vscs-alice")
	if len(events) != 1 || events[0].Type != audit.EventLaunch {
		t.Errorf("audit events = %+v", events)
	}
}

func TestLauncher_GeneratedSecretIsUsed(t *testing.T) {
	rt := runtime.NewMockRuntime()
	l := newTestLauncher(t, rt)
	l.Secrets = secret.New()

	res, err := l.Launch(context.Background(), "bob")
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}

	opts, ok := rt.LaunchOptionsFor("vscs-bob")
	if !ok {
		t.Fatal("container not launched")
	}
	if len(opts.Secret) != secret.Length {
		t.Errorf("secret length = %d", len(opts.Secret))
	}
	if got := res.URL.Query().Get("tkn"); got != opts.Secret {
		t.Errorf("URL token = %q, launched with %q", got, opts.Secret)
	}
}

func TestLauncher_EchoMismatchKeepsGeneratedSecret(t *testing.T) {
	rt := runtime.NewMockRuntime()
	rt.SetInspectOutput("vscs-alice", "40000 somethingelse")
	l := newTestLauncher(t, rt)

	res, err := l.Launch(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if got := res.URL.String(); got != "http://localhost:40000/?tkn=abc123" {
		t.Errorf("URL = %q", got)
	}
}

func TestLauncher_InvalidUserID(t *testing.T) {
	rt := runtime.NewMockRuntime()
	l := newTestLauncher(t, rt)

	for _, id := range []string{"", "../etc", "a b", "-x"} {
		if _, err := l.Launch(context.Background(), id); !errors.Is(err, errors.ErrInvalidToken) {
			t.Errorf("Launch(%q) error = %v, want invalid token", id, err)
		}
	}
	if len(rt.GetCalls()) != 0 {
		t.Error("runtime should not be called for invalid ids")
	}
}

func TestLauncher_ConcurrentSameUser(t *testing.T) {
	rt := runtime.NewMockRuntime()
	l := newTestLauncher(t, rt)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = l.Launch(context.Background(), "alice")
		}(i)
	}
	wg.Wait()

	var ok, launchErr int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, errors.ErrLaunch):
			launchErr++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || launchErr != 1 {
		t.Errorf("got %d successes and %d launch errors, want 1 and 1", ok, launchErr)
	}
}

func TestLauncher_LeaseHeld(t *testing.T) {
	rt := runtime.NewMockRuntime()
	l := newTestLauncher(t, rt)
	l.Leases = &Leases{Dir: t.TempDir()}

	release, err := l.Leases.Acquire("alice")
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	if _, err := l.Launch(context.Background(), "alice"); !errors.Is(err, errors.ErrWorkspaceBusy) {
		t.Errorf("Launch() error = %v, want workspace busy", err)
	}
	if len(rt.GetCallsFor("Launch")) != 0 {
		t.Error("runtime should not be called while the lease is held")
	}
}

func TestLauncher_InspectFailure(t *testing.T) {
	tests := []struct {
		name        string
		cleanup     bool
		wantRunning bool
	}{
		{"cleanup on failure", true, false},
		{"orphan left running", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := runtime.NewMockRuntime()
			rt.SetInspectOutput("vscs-alice", "49213")
			l := newTestLauncher(t, rt)
			l.Config.CleanupOnFailure = tt.cleanup

			_, err := l.Launch(context.Background(), "alice")
			if !errors.Is(err, errors.ErrInspect) {
				t.Fatalf("Launch() error = %v, want inspect error", err)
			}
			if rt.HasContainer("vscs-alice") != tt.wantRunning {
				t.Errorf("container running = %v, want %v", rt.HasContainer("vscs-alice"), tt.wantRunning)
			}
		})
	}
}

func TestLauncher_URLBuildFailure(t *testing.T) {
	rt := runtime.NewMockRuntime()
	l := newTestLauncher(t, rt)
	l.Config.ContainerURL = "localhost:{port}/?tkn={token}"

	_, err := l.Launch(context.Background(), "alice")
	if !errors.Is(err, errors.ErrURLBuild) {
		t.Fatalf("Launch() error = %v, want url build error", err)
	}
	if rt.HasContainer("vscs-alice") {
		t.Error("container should be cleaned up")
	}

	events, _ := l.Audit.Events("vscs-alice")
	if len(events) != 2 || events[0].Type != audit.EventError || events[1].Type != audit.EventCleanup {
		t.Errorf("audit events = %+v", events)
	}
}

func TestLauncher_LaunchFailureNoCleanup(t *testing.T) {
	rt := runtime.NewMockRuntime()
	rt.SetError("Launch", fmt.Errorf("image not found"))
	l := newTestLauncher(t, rt)

	if _, err := l.Launch(context.Background(), "alice"); !errors.Is(err, errors.ErrLaunch) {
		t.Fatalf("Launch() error = %v, want launch error", err)
	}
	if len(rt.GetCallsFor("Terminate")) != 0 {
		t.Error("nothing to clean up after a failed launch")
	}
}

type failingSource struct{}

func (failingSource) Generate() (string, error) { return "", fmt.Errorf("entropy exhausted") }

func TestLauncher_SecretFailure(t *testing.T) {
	rt := runtime.NewMockRuntime()
	l := newTestLauncher(t, rt)
	l.Secrets = failingSource{}

	_, err := l.Launch(context.Background(), "alice")
	if errors.KindOf(err) != errors.KindInternal {
		t.Errorf("Launch() error kind = %q, want internal", errors.KindOf(err))
	}
	if len(rt.GetCalls()) != 0 {
		t.Error("runtime should not be called")
	}
}
