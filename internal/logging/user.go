package logging

import (
	"fmt"
	"io"
	"os"
)

// Destinations for operator-facing CLI output. Tests swap these out.
var (
	UserOut io.Writer = os.Stdout
	UserErr io.Writer = os.Stderr
)

// UserInfo prints an info message.
func UserInfo(format string, args ...any) {
	fmt.Fprintf(UserOut, "ℹ "+format+"\n", args...)
}

// UserSuccess prints a success message.
func UserSuccess(format string, args ...any) {
	fmt.Fprintf(UserOut, "✓ "+format+"\n", args...)
}

// UserWarning prints a warning message.
func UserWarning(format string, args ...any) {
	fmt.Fprintf(UserErr, "⚠ "+format+"\n", args...)
}

// UserError prints an error message.
func UserError(format string, args ...any) {
	fmt.Fprintf(UserErr, "✗ "+format+"\n", args...)
}
