package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/alexandremahdhaoui/ez-relink/internal/relink"
	"github.com/alexandremahdhaoui/ez-relink/internal/relinkerr"
	"github.com/alexandremahdhaoui/ez-relink/pkg/flaterrors"
	"github.com/spf13/cobra"
)

// report is the printable summary of a hook run.
type report struct {
	RunID            string   `json:"runId"`
	Board            string   `json:"board"`
	Target           string   `json:"target"`
	Applicable       bool     `json:"applicable"`
	State            string   `json:"state"`
	PrimaryImage     string   `json:"primaryImage,omitempty"`
	BackupImage      string   `json:"backupImage,omitempty"`
	OriginalDigest   string   `json:"originalDigest,omitempty"`
	RelinkedDigest   string   `json:"relinkedDigest,omitempty"`
	SecondaryRemoved bool     `json:"secondaryRemoved"`
	Warnings         []string `json:"warnings,omitempty"`
}

func newReport(target string, res relink.Result) report {
	out := report{
		RunID:            res.RunID,
		Board:            res.Board,
		Target:           target,
		Applicable:       res.State != relink.StateNotApplicable,
		State:            string(res.State),
		OriginalDigest:   res.OriginalDigest,
		RelinkedDigest:   res.RelinkedDigest,
		SecondaryRemoved: res.SecondaryRemoved,
	}

	if out.Applicable {
		out.PrimaryImage = res.Resolved.Paths.PrimaryImage
	}

	if res.State == relink.StateSwapped {
		out.BackupImage = res.Resolved.Paths.BackupImage
	}

	for _, w := range res.Warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}

	return out
}

// runOptions are the inputs of one hook run.
type runOptions struct {
	// Board defaults to the leaf name of the target's directory.
	Board  string
	Target string
	// Stdout receives section dumps, Stderr the sub-build output on failure.
	Stdout io.Writer
	Stderr io.Writer
}

var errRunningHook = errors.New("running relink hook")

// runHook runs the hook once. A target the board does not own, or a board
// missing from the table, is reported as not applicable with a nil error.
func runHook(ctx context.Context, s settings, opts runOptions) (report, error) {
	name := opts.Board
	if name == "" {
		name = relink.TargetName(opts.Target)
	}

	b, ok := s.Registry.Lookup(name)
	if !ok {
		s.Logger.Info("Skipping relink: no relink configuration for board", "board", name)
		return report{Board: name, Target: opts.Target, State: string(relink.StateNotApplicable)}, nil
	}

	hook := relink.NewHook(s.Logger)
	hook.Stdout = opts.Stdout
	hook.Stderr = opts.Stderr

	res, err := hook.Run(ctx, relink.Request{
		Board:      b,
		Target:     opts.Target,
		Env:        s.Env,
		ProjectDir: s.ProjectDir,
		BuildRoot:  s.Envs.BuildRoot,
	})

	out := newReport(opts.Target, res)
	if errors.Is(err, relinkerr.ErrNotApplicable) {
		return out, nil
	}
	if err != nil {
		return out, flaterrors.Join(err, errRunningHook)
	}

	return out, nil
}

// ----------------------------------------------------- RUN COMMAND ------------------------------------------------ //

func (a *app) newRunCommand() *cobra.Command {
	var (
		boardName string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "run <target>",
		Short: "Relink the firmware image just built at <target>",
		Long: "Run the post-build hook for <target>, e.g. .pio/build/due/firmware.elf.\n" +
			"The board is the leaf name of the target's directory unless --board is set,\n" +
			"in which case targets built for other boards are skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			target := args[0]
			if !filepath.IsAbs(target) {
				target = filepath.Join(s.ProjectDir, target)
			}

			rep, err := runHook(cmd.Context(), s, runOptions{
				Board:  boardName,
				Target: target,
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			switch output {
			case "json":
				return json.NewEncoder(cmd.OutOrStdout()).Encode(rep)
			default:
				printRunSuccess(cmd.ErrOrStderr(), rep)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&boardName, "board", "", "board this hook owns (default: inferred from <target>)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "result format: text or json")

	return cmd
}

func printRunSuccess(w io.Writer, rep report) {
	switch {
	case !rep.Applicable:
		_, _ = fmt.Fprintf(w, "⏭️  Relink skipped for %s\n", rep.Target)
	case rep.State == string(relink.StateSwapped):
		_, _ = fmt.Fprintf(w, "✅ Relinked %s (backup: %s)\n", rep.PrimaryImage, rep.BackupImage)
	default:
		_, _ = fmt.Fprintf(w, "✅ Relink disabled for %s: secondary artifact invalidated\n", rep.Board)
	}
}
