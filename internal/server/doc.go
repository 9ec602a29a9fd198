// Package server exposes the farm over HTTP.
//
// Routes:
//   - GET /start: launch the caller's workspace and redirect to it
//   - POST /stop: stop the caller's workspace
//   - GET /healthz: runtime reachability
//
// The caller is identified by an identity.Provider. Failures are answered
// with {"error":{"code":..,"message":..}} and a status per error kind; the
// message never includes runtime output. Every response carries an
// X-Request-Id header, which is also recorded in audit events.
package server
