package workspace

import (
	"context"

	"github.com/lcpu-club/openvscode-farm/internal/audit"
	"github.com/lcpu-club/openvscode-farm/internal/config"
	"github.com/lcpu-club/openvscode-farm/internal/errors"
	"github.com/lcpu-club/openvscode-farm/internal/logging"
	"github.com/lcpu-club/openvscode-farm/internal/runtime"
)

// Terminator stops workspaces.
type Terminator struct {
	Runtime runtime.Runtime
	Leases  *Leases
	Audit   *audit.Logger // optional
}

// Terminate stops the workspace of userID. Only that user's container is
// touched.
func (t *Terminator) Terminate(ctx context.Context, userID string) error {
	if err := config.ValidateUserID(userID); err != nil {
		return errors.InvalidToken()
	}

	name := Name(userID)

	release, err := t.Leases.Acquire(userID)
	if err != nil {
		return err
	}
	defer release()

	if err := t.Runtime.Terminate(ctx, name); err != nil {
		t.record(ctx, audit.EventError, name, userID, string(errors.KindOf(err)))
		return err
	}

	logging.Info("workspace stopped", "workspace", name, "request_id", audit.RequestID(ctx))
	t.record(ctx, audit.EventStop, name, userID, "")
	return nil
}

func (t *Terminator) record(ctx context.Context, et audit.EventType, name, userID, details string) {
	if t.Audit == nil {
		return
	}
	if err := t.Audit.Record(ctx, et, name, userID, details); err != nil {
		logging.Warn("failed to write audit event", "workspace", name, "error", err)
	}
}
