package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestLogger_LogAndEvents(t *testing.T) {
	dir := t.TempDir()
	logger := NewLogger(dir)

	now := time.Now().Truncate(time.Millisecond)

	events := []Event{
		{Timestamp: now, Type: EventLaunch, Workspace: "vscs-alice", User: "alice", Details: "port=49213"},
		{Timestamp: now.Add(time.Second), Type: EventError, Workspace: "vscs-alice", Details: "inspect_failed"},
		{Timestamp: now.Add(2 * time.Second), Type: EventCleanup, Workspace: "vscs-alice"},
		{Timestamp: now.Add(3 * time.Second), Type: EventStop, Workspace: "vscs-alice", User: "alice"},
	}

	for _, e := range events {
		if err := logger.Log(e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	result, err := logger.Events("vscs-alice")
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}

	if len(result) != len(events) {
		t.Fatalf("got %d events, want %d", len(result), len(events))
	}

	for i, e := range result {
		if e.Type != events[i].Type {
			t.Errorf("event %d: type = %q, want %q", i, e.Type, events[i].Type)
		}
		if e.Workspace != events[i].Workspace {
			t.Errorf("event %d: workspace = %q, want %q", i, e.Workspace, events[i].Workspace)
		}
		if e.Details != events[i].Details {
			t.Errorf("event %d: details = %q, want %q", i, e.Details, events[i].Details)
		}
	}
}

func TestLogger_EventsEmpty(t *testing.T) {
	logger := NewLogger(t.TempDir())

	result, err := logger.Events("nonexistent")
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("got %d events, want 0", len(result))
	}
}

func TestLogger_Record(t *testing.T) {
	logger := NewLogger(t.TempDir())

	ctx := WithRequestID(context.Background(), "req-1")
	if err := logger.Record(ctx, EventLaunch, "vscs-bob", "bob", "port=40000"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	events, err := logger.Events("vscs-bob")
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	e := events[0]
	if e.RequestID != "req-1" {
		t.Errorf("request id = %q, want %q", e.RequestID, "req-1")
	}
	if e.User != "bob" {
		t.Errorf("user = %q, want %q", e.User, "bob")
	}
	if e.Timestamp.IsZero() {
		t.Error("timestamp should be set automatically")
	}
}

func TestLogger_ConcurrentAppends(t *testing.T) {
	logger := NewLogger(t.TempDir())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = logger.Log(Event{Type: EventLaunch, Workspace: "vscs-busy", Details: fmt.Sprint(i)})
		}(i)
	}
	wg.Wait()

	events, err := logger.Events("vscs-busy")
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 20 {
		t.Errorf("got %d events, want 20", len(events))
	}
}

func TestLogger_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	logger := NewLogger(dir)

	_ = logger.Log(Event{Type: EventStop, Workspace: "vscs-x"})
	path := filepath.Join(dir, "workspaces", "vscs-x"+eventSuffix)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString("{not json\n\n")
	f.Close()

	events, err := logger.Events("vscs-x")
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("got %d events, want 1", len(events))
	}
}

func TestLogger_Workspaces(t *testing.T) {
	logger := NewLogger(t.TempDir())

	if names, err := logger.Workspaces(); err != nil || len(names) != 0 {
		t.Fatalf("Workspaces() on empty dir = %v, %v", names, err)
	}

	_ = logger.Log(Event{Type: EventLaunch, Workspace: "vscs-bob"})
	_ = logger.Log(Event{Type: EventLaunch, Workspace: "vscs-alice"})

	names, err := logger.Workspaces()
	if err != nil {
		t.Fatalf("Workspaces failed: %v", err)
	}
	if len(names) != 2 || names[0] != "vscs-alice" || names[1] != "vscs-bob" {
		t.Errorf("Workspaces() = %v", names)
	}
}

func TestLogger_Remove(t *testing.T) {
	logger := NewLogger(t.TempDir())

	_ = logger.Log(Event{Type: EventLaunch, Workspace: "vscs-gone"})

	if err := logger.Remove("vscs-gone"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	events, _ := logger.Events("vscs-gone")
	if len(events) != 0 {
		t.Errorf("got %d events after remove, want 0", len(events))
	}

	if err := logger.Remove("nonexistent"); err != nil {
		t.Errorf("Remove should not error for nonexistent: %v", err)
	}
}

func TestRequestID_Missing(t *testing.T) {
	if id := RequestID(context.Background()); id != "" {
		t.Errorf("RequestID() = %q, want empty", id)
	}
}
