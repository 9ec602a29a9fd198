// Package runtime drives the container engine that hosts workspaces.
//
// Supported runtimes:
//   - docker: Docker Engine
//   - podman: Podman, with the same command line
//
// Runtime selection is automatic unless configured. Every operation is a
// single invocation of the engine binary through system.CommandExecutor,
// bounded by a per-call timeout.
//
// # Runtime Interface
//
//   - Launch: start a detached, self-removing workspace container
//   - Inspect: read the published host port and echoed connection token
//   - Terminate: stop a workspace (the engine removes it)
//   - List, Ping: enumeration and reachability
//
// # Mock Runtime
//
// For testing, use NewMockRuntime() to create an in-memory implementation
// with the same name uniqueness rule as a real engine.
package runtime
