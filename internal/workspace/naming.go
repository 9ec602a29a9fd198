package workspace

import (
	"strings"

	"github.com/lcpu-club/openvscode-farm/internal/runtime"
)

// Prefix is prepended to a user id to form the container name
const Prefix = runtime.WorkspacePrefix

// Name returns the container name of a user's workspace.
func Name(userID string) string {
	return Prefix + userID
}

// UserID recovers the user id from a workspace name.
func UserID(name string) (string, bool) {
	if !strings.HasPrefix(name, Prefix) || len(name) == len(Prefix) {
		return "", false
	}
	return strings.TrimPrefix(name, Prefix), true
}
