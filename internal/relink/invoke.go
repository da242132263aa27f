package relink

import (
	"context"

	"github.com/alexandremahdhaoui/ez-relink/internal/cmdutil"
	"github.com/alexandremahdhaoui/ez-relink/internal/relinkerr"
)

// Outcome is the result of delegating to the relink sub-build.
type Outcome struct {
	Success  bool
	Command  []string
	Dir      string
	ExitCode int
	Stdout   string
	Stderr   string
	// Error is set when the sub-build could not be started.
	Error string
}

// Err returns nil on success, else the matching *relinkerr.SubBuildError.
func (o Outcome) Err() error {
	if o.Success {
		return nil
	}

	return &relinkerr.SubBuildError{
		Command:  o.Command,
		Dir:      o.Dir,
		ExitCode: o.ExitCode,
		Stdout:   o.Stdout,
		Stderr:   o.Stderr,
		Cause:    o.Error,
	}
}

// Invoker runs the relink sub-build.
type Invoker struct {
	Runner cmdutil.Runner
}

// Invoke runs command in dir with exactly env, blocks until it exits and maps
// exit code 0 to success. It never looks at why the sub-build failed.
func (i Invoker) Invoke(ctx context.Context, command []string, env map[string]string, dir string) Outcome {
	if len(command) == 0 {
		return Outcome{Dir: dir, ExitCode: -1, Error: "empty sub-build command"}
	}

	out := i.Runner.Run(ctx, cmdutil.ExecuteInput{
		Command: command[0],
		Args:    command[1:],
		Env:     env,
		WorkDir: dir,
	})

	return Outcome{
		Success:  out.Succeeded(),
		Command:  command,
		Dir:      dir,
		ExitCode: out.ExitCode,
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
		Error:    out.Error,
	}
}
