package relink

import (
	"context"
	"io"

	"github.com/alexandremahdhaoui/ez-relink/internal/cmdutil"
	"github.com/alexandremahdhaoui/ez-relink/internal/relinkerr"
)

// SectionDump prints the section headers of image with objdump. Its output
// goes to w whether or not the dump succeeds. A failure is returned as a
// *relinkerr.DiagnosticError, which callers log and otherwise ignore.
func SectionDump(ctx context.Context, runner cmdutil.Runner, w io.Writer, env map[string]string, objdump, image string) error {
	in := cmdutil.ExecuteInput{
		Command: objdump,
		Args:    []string{"-h", image},
		Env:     env,
	}

	out := runner.Run(ctx, in)

	_, _ = io.WriteString(w, out.Stdout)
	_, _ = io.WriteString(w, out.Stderr)

	if out.Succeeded() {
		return nil
	}

	return &relinkerr.DiagnosticError{
		Command:  in.Argv(),
		ExitCode: out.ExitCode,
		Cause:    out.Error,
	}
}
