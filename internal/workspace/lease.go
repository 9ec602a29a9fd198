package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/lcpu-club/openvscode-farm/internal/errors"
)

// Leases hands out per-user exclusive leases backed by lock files, so at
// most one launch or stop per user is in flight across processes.
type Leases struct {
	// Dir holds the lock files. Empty disables leasing.
	Dir string
}

// Acquire takes the user's lease without blocking. A held lease is a
// WorkspaceBusy error. The returned release func is never nil.
func (l *Leases) Acquire(userID string) (func(), error) {
	if l == nil || l.Dir == "" {
		return func() {}, nil
	}

	if err := os.MkdirAll(l.Dir, 0755); err != nil {
		return func() {}, fmt.Errorf("failed to create lock directory: %w", err)
	}

	fileLock := flock.New(filepath.Join(l.Dir, userID+".lock"))
	locked, err := fileLock.TryLock()
	if err != nil {
		return func() {}, fmt.Errorf("failed to lock workspace: %w", err)
	}
	if !locked {
		return func() {}, errors.WorkspaceBusy(userID)
	}

	return func() { _ = fileLock.Unlock() }, nil
}
