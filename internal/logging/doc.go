// Package logging provides logging utilities for vscs-farm.
//
// This package provides two categories of output:
//   - Structured logs (via slog) for the server and debugging
//   - User output: formatted messages for operators running CLI commands
//
// # Structured Logging
//
// Records are written using slog and controlled by verbosity settings:
//
//	logging.Debug("launching workspace", "name", name, "image", image)
//	logging.Warn("cleanup after failed launch", "name", name, "error", err)
//
// Writer adapts the logger to line-oriented producers such as the HTTP
// access log, and PanicLogger to the recovery handler.
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Launching workspace for %s...", userID)
//	logging.UserSuccess("Workspace ready at %s", url)
//	logging.UserWarning("Runtime %s not reachable", name)
//	logging.UserError("Failed to stop workspace: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
package logging
