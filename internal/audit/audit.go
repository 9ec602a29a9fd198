// Package audit provides structured event logging for workspace lifecycle
// events. Events are stored as JSON Lines (JSONL) files, one per workspace.
package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// EventType classifies a lifecycle event.
type EventType string

const (
	EventLaunch  EventType = "launch"
	EventStop    EventType = "stop"
	EventCleanup EventType = "cleanup"
	EventError   EventType = "error"
)

const eventSuffix = ".events.jsonl"

// Event represents a single audit log entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Workspace string    `json:"workspace"`
	User      string    `json:"user,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Details   string    `json:"details,omitempty"`
}

// Logger writes and reads audit events for workspaces.
// Events are stored in {stateDir}/workspaces/{name}.events.jsonl.
type Logger struct {
	stateDir string
}

// NewLogger creates a new audit logger rooted at stateDir.
func NewLogger(stateDir string) *Logger {
	return &Logger{stateDir: stateDir}
}

func (l *Logger) dir() string {
	return filepath.Join(l.stateDir, "workspaces")
}

// eventPath returns the path to the JSONL event log for a workspace.
func (l *Logger) eventPath(workspace string) string {
	return filepath.Join(l.dir(), workspace+eventSuffix)
}

// Log appends an event to the workspace's audit log. Appends from
// concurrent processes are serialized with a file lock.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	path := l.eventPath(event.Workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	fileLock := flock.New(path + ".lock")
	if err := fileLock.Lock(); err != nil {
		return fmt.Errorf("failed to lock audit log: %w", err)
	}
	defer func() { _ = fileLock.Unlock() }()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// Record logs an event carrying the request id found in ctx.
func (l *Logger) Record(ctx context.Context, eventType EventType, workspace, user, details string) error {
	return l.Log(Event{
		Timestamp: time.Now(),
		Type:      eventType,
		Workspace: workspace,
		User:      user,
		RequestID: RequestID(ctx),
		Details:   details,
	})
}

// Events reads all events for a workspace in chronological order.
func (l *Logger) Events(workspace string) ([]Event, error) {
	path := l.eventPath(workspace)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading audit log: %w", err)
	}

	return events, nil
}

// Workspaces returns the names of all workspaces with an audit log.
func (l *Logger) Workspaces() ([]string, error) {
	entries, err := os.ReadDir(l.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read audit directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), eventSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), eventSuffix))
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes the audit log for a workspace.
func (l *Logger) Remove(workspace string) error {
	path := l.eventPath(workspace)
	for _, p := range []string{path, path + ".lock"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
