// Package workspace implements the workspace lifecycle: naming, launching
// a user's IDE container, building the redirect URL and stopping it.
//
// A launch validates the user id, derives the container name, generates a
// fresh connection token, launches, inspects the published port and builds
// the URL. The token used in the URL is always the one generated for this
// launch. At most one launch or stop per user runs at a time when Leases
// is configured; otherwise the runtime's name uniqueness decides.
package workspace
