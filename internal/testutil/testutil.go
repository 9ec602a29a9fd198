package testutil

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lcpu-club/openvscode-farm/internal/config"
	"github.com/lcpu-club/openvscode-farm/internal/runtime"
)

// TestEnv holds the test environment
type TestEnv struct {
	T       *testing.T
	TmpDir  string
	Config  *config.Config
	Runtime *runtime.MockRuntime
}

// NewTestEnv creates a configuration rooted in a temporary directory and
// an empty mock runtime.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()

	cfg := config.Default()
	cfg.DataDir = filepath.Join(tmpDir, "data")
	cfg.StateDir = filepath.Join(tmpDir, "state")
	cfg.LockDir = filepath.Join(tmpDir, "locks")

	for _, dir := range []string{cfg.DataDir, cfg.StateDir, cfg.LockDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	return &TestEnv{
		T:       t,
		TmpDir:  tmpDir,
		Config:  cfg,
		Runtime: runtime.NewMockRuntime(),
	}
}

// AccessToken returns an unsigned three-segment token carrying userID,
// shaped like the tokens an authenticating proxy forwards.
func AccessToken(userID string) string {
	return TokenWithClaims(map[string]any{"userId": userID})
}

// TokenWithClaims encodes arbitrary claims as the token payload.
func TokenWithClaims(claims map[string]any) string {
	payload, _ := json.Marshal(claims)
	return "eyJhbGciOiJub25lIn0." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}
