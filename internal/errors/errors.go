package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Exit codes for vscs-farm
const (
	ExitSuccess        = 0
	ExitGeneralError   = 1
	ExitInvalidToken   = 2
	ExitLaunchFailed   = 3
	ExitInspectFailed  = 4
	ExitURLBuildFailed = 5
	ExitTerminate      = 6
	ExitWorkspaceBusy  = 7
	ExitConfigError    = 8
)

// Kind classifies a failure of the workspace lifecycle.
type Kind string

const (
	KindInvalidToken  Kind = "invalid_token"
	KindLaunch        Kind = "launch_failed"
	KindInspect       Kind = "inspect_failed"
	KindURLBuild      Kind = "url_build_failed"
	KindTerminate     Kind = "terminate_failed"
	KindWorkspaceBusy Kind = "workspace_busy"
	KindConfig        Kind = "config_error"
	KindInternal      Kind = "internal_error"
)

// FarmError is the base error type for vscs-farm
type FarmError struct {
	Kind    Kind
	Code    int
	Message string
	Cause   error
}

func (e *FarmError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *FarmError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *FarmError) ExitCode() int {
	return e.Code
}

// Is matches another FarmError of the same kind, so sentinel values like
// ErrInvalidToken work with errors.Is.
func (e *FarmError) Is(target error) bool {
	t, ok := target.(*FarmError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Cause == nil
}

// New creates a new FarmError
func New(kind Kind, code int, message string) *FarmError {
	return &FarmError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a FarmError
func Wrap(kind Kind, code int, message string, cause error) *FarmError {
	return &FarmError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidToken  = New(KindInvalidToken, ExitInvalidToken, "invalid access token")
	ErrLaunch        = New(KindLaunch, ExitLaunchFailed, "launch failed")
	ErrInspect       = New(KindInspect, ExitInspectFailed, "inspect failed")
	ErrURLBuild      = New(KindURLBuild, ExitURLBuildFailed, "url build failed")
	ErrTerminate     = New(KindTerminate, ExitTerminate, "terminate failed")
	ErrWorkspaceBusy = New(KindWorkspaceBusy, ExitWorkspaceBusy, "workspace busy")
	ErrConfig        = New(KindConfig, ExitConfigError, "config error")
)

// InvalidToken returns the uniform token rejection. The cause is never
// attached so callers cannot learn which validation step failed.
func InvalidToken() *FarmError {
	return New(KindInvalidToken, ExitInvalidToken, "invalid access token")
}

// LaunchFailed returns an error for a failed container launch
func LaunchFailed(name string, cause error) *FarmError {
	return Wrap(KindLaunch, ExitLaunchFailed, fmt.Sprintf("failed to launch workspace %s", name), cause)
}

// InspectFailed returns an error for a failed or unparseable inspect
func InspectFailed(name string, cause error) *FarmError {
	return Wrap(KindInspect, ExitInspectFailed, fmt.Sprintf("failed to inspect workspace %s", name), cause)
}

// URLBuildFailed returns an error for an invalid redirect URL
func URLBuildFailed(cause error) *FarmError {
	return Wrap(KindURLBuild, ExitURLBuildFailed, "failed to build redirect url", cause)
}

// TerminateFailed returns an error for a failed container stop
func TerminateFailed(name string, cause error) *FarmError {
	return Wrap(KindTerminate, ExitTerminate, fmt.Sprintf("failed to terminate workspace %s", name), cause)
}

// WorkspaceBusy returns an error when another request holds the user's lease
func WorkspaceBusy(userID string) *FarmError {
	return New(KindWorkspaceBusy, ExitWorkspaceBusy, fmt.Sprintf("workspace for %s is busy", userID))
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *FarmError {
	return Wrap(KindConfig, ExitConfigError, message, cause)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var farmErr *FarmError
	if errors.As(err, &farmErr) {
		return farmErr.ExitCode()
	}
	return ExitGeneralError
}

// KindOf returns the kind of the first FarmError in err's chain.
func KindOf(err error) Kind {
	var farmErr *FarmError
	if errors.As(err, &farmErr) {
		return farmErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the response status for the HTTP boundary.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidToken:
		return http.StatusUnauthorized
	case KindWorkspaceBusy:
		return http.StatusConflict
	case KindLaunch, KindInspect, KindTerminate:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns a message safe to show to remote callers. It never
// includes command output or filesystem paths.
func PublicMessage(err error) string {
	switch KindOf(err) {
	case KindInvalidToken:
		return "invalid access token"
	case KindWorkspaceBusy:
		return "workspace is busy, retry shortly"
	case KindLaunch:
		return "failed to start workspace"
	case KindInspect:
		return "failed to locate workspace"
	case KindURLBuild:
		return "failed to build workspace url"
	case KindTerminate:
		return "failed to stop workspace"
	default:
		return "internal error"
	}
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
