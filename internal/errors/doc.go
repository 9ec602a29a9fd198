// Package errors provides typed errors for vscs-farm.
//
// Every failure of the workspace lifecycle is a FarmError carrying a Kind.
// The kind decides the CLI exit code, the HTTP status and the machine
// readable code returned to remote callers:
//
//	invalid_token     401  exit 2
//	launch_failed     502  exit 3
//	inspect_failed    502  exit 4
//	url_build_failed  500  exit 5
//	terminate_failed  502  exit 6
//	workspace_busy    409  exit 7
//	config_error      500  exit 8
//
// Use the constructors for consistent error creation and the sentinels
// with errors.Is:
//
//	err := errors.LaunchFailed(name, cause)
//	errors.Is(err, errors.ErrLaunch) // true
package errors
