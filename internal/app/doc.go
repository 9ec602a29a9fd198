// Package app provides the application context for vscs-farm.
// It wires configuration into the runtime, identity, workspace and server
// components, and allows dependency injection for testing.
package app
