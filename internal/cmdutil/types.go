package cmdutil

import (
	"context"
)

// ExecuteInput contains the parameters for command execution.
type ExecuteInput struct {
	Command string   // Command to execute
	Args    []string // Command arguments
	// Env is the complete child environment. Nil inherits the current process
	// environment; a non-nil map is used as-is, nothing is merged in.
	Env     map[string]string
	WorkDir string // Working directory (optional)
}

// Argv returns the command line as a slice.
func (in ExecuteInput) Argv() []string {
	return append([]string{in.Command}, in.Args...)
}

// ExecuteOutput contains the result of command execution.
type ExecuteOutput struct {
	ExitCode int    // Command exit code, -1 when the process did not run to an exit
	Stdout   string // Standard output
	Stderr   string // Standard error
	Error    string // Error message if execution failed
}

// Succeeded reports whether the command ran and exited 0.
func (out ExecuteOutput) Succeeded() bool {
	return out.ExitCode == 0 && out.Error == ""
}

// Runner runs a command to completion and captures its result.
type Runner interface {
	Run(ctx context.Context, input ExecuteInput) ExecuteOutput
}
