// Package relinkerr defines the failure taxonomy of the relink hook.
//
// Every error except ErrNotApplicable and *DiagnosticError aborts the build.
package relinkerr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotApplicable is returned when the hook is invoked for a target it does not
// own. It is not a failure; the build continues.
var ErrNotApplicable = errors.New("relink not applicable to this target")

// UnresolvedPathError reports a required directory missing at its resolved
// location.
type UnresolvedPathError struct {
	// Name is the logical name of the path, e.g. "toolchain".
	Name string
	// Path is the value that was tried.
	Path string
	// OverrideVar is the variable an operator can set to fix it, if any.
	OverrideVar string
}

func (e *UnresolvedPathError) Error() string {
	msg := fmt.Sprintf("cannot find %s directory %q", e.Name, e.Path)
	if e.OverrideVar != "" {
		msg += fmt.Sprintf(": please set your %q environment variable appropriately", e.OverrideVar)
	}

	return msg
}

// PreconditionError reports a path that exists but violates a constraint, or a
// missing upstream artifact.
type PreconditionError struct {
	Name        string
	Path        string
	OverrideVar string
	// Reason says which constraint failed, e.g. "must be absolute".
	Reason string
}

func (e *PreconditionError) Error() string {
	msg := fmt.Sprintf("%s %q %s", e.Name, e.Path, e.Reason)
	if e.OverrideVar != "" {
		msg += fmt.Sprintf(": please set your %q environment variable appropriately", e.OverrideVar)
	}

	return msg
}

// SubBuildError reports a relink sub-build that exited non-zero or could not be
// started. Stdout and Stderr are relayed verbatim.
type SubBuildError struct {
	Command  []string
	Dir      string
	ExitCode int
	Stdout   string
	Stderr   string
	// Cause is set when the process could not be started at all.
	Cause string
}

func (e *SubBuildError) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("build failed in %s: %s", strings.Join(e.Command, " "), e.Cause)
	}

	return fmt.Sprintf("build failed in %s (exit code %d)", strings.Join(e.Command, " "), e.ExitCode)
}

// DiagnosticError reports a failed section dump. It is logged, never fatal.
type DiagnosticError struct {
	Command  []string
	ExitCode int
	Cause    string
}

func (e *DiagnosticError) Error() string {
	msg := fmt.Sprintf("%s command failed (exit code %d)", strings.Join(e.Command, " "), e.ExitCode)
	if e.Cause != "" {
		msg += ": " + e.Cause
	}

	return msg
}

// IsFatal reports whether err must abort the build.
func IsFatal(err error) bool {
	if err == nil || errors.Is(err, ErrNotApplicable) {
		return false
	}

	var diag *DiagnosticError

	return !errors.As(err, &diag)
}
