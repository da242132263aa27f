package cmdutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	utilexec "k8s.io/utils/exec"
)

// ExecRunner is the Runner backed by real child processes.
type ExecRunner struct {
	exec utilexec.Interface
}

// NewRunner returns a Runner spawning real processes.
func NewRunner() *ExecRunner {
	return NewRunnerWithExec(utilexec.New())
}

// NewRunnerWithExec returns a Runner spawning processes through e.
func NewRunnerWithExec(e utilexec.Interface) *ExecRunner {
	return &ExecRunner{exec: e}
}

// Run executes the command and blocks until it terminates.
//
// Stdout and stderr are captured separately. A non-zero exit status is
// reported through ExitCode only; Error is reserved for commands that could
// not be run at all (not found, not executable, cancelled).
func (r *ExecRunner) Run(ctx context.Context, input ExecuteInput) ExecuteOutput {
	cmd := r.exec.CommandContext(ctx, input.Command, input.Args...)

	// Set working directory if specified
	if input.WorkDir != "" {
		cmd.SetDir(input.WorkDir)
	}

	if input.Env != nil {
		cmd.SetEnv(environ(input.Env))
	}

	// Capture stdout and stderr
	var stdout, stderr bytes.Buffer
	cmd.SetStdout(&stdout)
	cmd.SetStderr(&stderr)

	err := cmd.Run()

	output := ExecuteOutput{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err == nil {
		return output
	}

	// Get exit code from error
	var exitErr utilexec.ExitError
	if errors.As(err, &exitErr) && exitErr.Exited() {
		output.ExitCode = exitErr.ExitStatus()
		return output
	}

	output.ExitCode = -1
	if errors.Is(err, utilexec.ErrExecutableNotFound) {
		output.Error = fmt.Sprintf("%s: executable not found", input.Command)
	} else {
		output.Error = err.Error()
	}

	return output
}

func environ(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for key, value := range env {
		out = append(out, fmt.Sprintf("%s=%s", key, value))
	}

	sort.Strings(out)

	return out
}
