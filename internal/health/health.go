package health

import (
	"context"
	"os"
	"time"

	"github.com/lcpu-club/openvscode-farm/internal/logging"
	"github.com/lcpu-club/openvscode-farm/internal/runtime"
)

// Status represents the health of the farm
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// DefaultTimeout bounds a full check.
const DefaultTimeout = 5 * time.Second

// Report contains the results of a health check
type Report struct {
	Status     Status `json:"status"`
	Runtime    string `json:"runtime"`
	Workspaces int    `json:"workspaces"`
	DataDir    bool   `json:"data_dir"`
	Error      string `json:"error,omitempty"`
}

// Healthy reports whether the farm can serve launches
func (r *Report) Healthy() bool {
	return r.Status == StatusHealthy
}

// Report errors are fixed strings; the runtime's own output is only logged.
const (
	ErrRuntimeUnreachable = "runtime unreachable"
	ErrListFailed         = "failed to list workspaces"
)

// Check pings the runtime and counts running workspaces. A missing data
// directory is reported but not fatal, as the runtime creates bind mounts.
func Check(ctx context.Context, rt runtime.Runtime, dataDir string) *Report {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	report := &Report{Status: StatusHealthy, Runtime: rt.Name()}

	if info, err := os.Stat(dataDir); err == nil && info.IsDir() {
		report.DataDir = true
	}

	if err := rt.Ping(ctx); err != nil {
		report.Status = StatusUnhealthy
		logging.Warn("health check: runtime ping failed", "runtime", rt.Name(), "error", err)
		report.Error = ErrRuntimeUnreachable
		return report
	}

	containers, err := rt.List(ctx)
	if err != nil {
		logging.Warn("health check: listing workspaces failed", "runtime", rt.Name(), "error", err)
		report.Error = ErrListFailed
		return report
	}
	for _, c := range containers {
		if c.Status == runtime.StatusRunning {
			report.Workspaces++
		}
	}

	return report
}
