// Package health reports whether the farm can launch workspaces: the
// container runtime answers, the data directory exists, and how many
// workspaces are running.
package health
