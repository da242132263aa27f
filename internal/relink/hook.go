package relink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexandremahdhaoui/ez-relink/internal/artifact"
	"github.com/alexandremahdhaoui/ez-relink/internal/board"
	"github.com/alexandremahdhaoui/ez-relink/internal/cmdutil"
	"github.com/alexandremahdhaoui/ez-relink/internal/logging"
	"github.com/alexandremahdhaoui/ez-relink/internal/relinkerr"
	"github.com/alexandremahdhaoui/ez-relink/internal/resolve"
	"github.com/alexandremahdhaoui/ez-relink/internal/subenv"
	"github.com/alexandremahdhaoui/ez-relink/internal/validate"
	"github.com/alexandremahdhaoui/ez-relink/pkg/flaterrors"
	"github.com/google/uuid"
)

// State is the last state a run reached.
type State string

const (
	StateNotApplicable State = "not-applicable"
	StateResolve       State = "resolve"
	StateValidate      State = "validate"
	StateBuildEnv      State = "build-env"
	StateInvoke        State = "invoke"
	// StateInvalidated is terminal for boards with relinking disabled.
	StateInvalidated State = "invalidated"
	// StateSwapped is terminal for a successful relink.
	StateSwapped State = "swapped"
)

// Request describes one hook invocation.
type Request struct {
	// Board is the board this hook owns.
	Board board.Board
	// Target is the just-built artifact, e.g. ".pio/build/due/firmware.elf".
	// The leaf name of its directory identifies the board that was built.
	Target string
	// Env is the environment snapshot used for resolution and inherited by
	// child processes.
	Env map[string]string
	// ProjectDir is the absolute project root.
	ProjectDir string
	// BuildRoot is the PlatformIO build root, relative to ProjectDir unless absolute.
	BuildRoot string
}

// Result reports what a run did.
type Result struct {
	RunID    string
	Board    string
	State    State
	Resolved resolve.Resolved

	// OriginalDigest and RelinkedDigest are BLAKE3 digests of the primary image
	// before and after the swap.
	OriginalDigest   string
	RelinkedDigest   string
	SecondaryRemoved bool
	// Warnings holds non-fatal diagnostic failures.
	Warnings []error
}

// Hook runs the relink for a board.
type Hook struct {
	Runner cmdutil.Runner
	Logger *slog.Logger
	// Stdout receives section dumps.
	Stdout io.Writer
	// Stderr receives the sub-build output when it fails.
	Stderr io.Writer
}

// NewHook returns a Hook spawning real processes.
func NewHook(logger *slog.Logger) *Hook {
	return &Hook{
		Runner: cmdutil.NewRunner(),
		Logger: logger,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// TargetName returns the board identity of a built artifact: the leaf name of
// the directory holding it.
func TargetName(target string) string {
	return filepath.Base(filepath.Dir(filepath.Clean(target)))
}

var (
	errResolving  = errors.New("resolving relink paths")
	errValidating = errors.New("validating relink preconditions")
	errPreparing  = errors.New("preparing relink working directory")
	errRelinking  = errors.New("relinking firmware")
	errSwapping   = errors.New("replacing firmware with relinked image")
)

// Run executes the hook. It returns an error wrapping relinkerr.ErrNotApplicable
// when req.Target was not built for req.Board; every other error is fatal.
func (h *Hook) Run(ctx context.Context, req Request) (Result, error) {
	res := Result{
		RunID: uuid.NewString(),
		Board: req.Board.Name,
		State: StateNotApplicable,
	}
	log := logging.Ensure(h.Logger).With("run_id", res.RunID, "board", req.Board.Name)

	// I. Identify
	if built := TargetName(req.Target); built != req.Board.Name {
		log.Info("Skipping relink: target was not built for this board", "target", built)
		return res, fmt.Errorf("target %q: %w", built, relinkerr.ErrNotApplicable)
	}

	log.Info("Relinking to expose stdlib functions...")

	// II. Resolve
	res.State = StateResolve

	r, err := resolve.Resolve(req.Board, req.Env, req.ProjectDir, req.BuildRoot)
	if err != nil {
		return res, flaterrors.Join(err, errResolving)
	}

	res.Resolved = r
	for _, loc := range r.Locations.All() {
		log.Debug("Resolved location", "role", loc.Spec.Role, "path", loc.Path, "source", loc.Source)
	}

	// III. Validate
	res.State = StateValidate

	if err := validate.Check(r); err != nil {
		return res, flaterrors.Join(err, errValidating)
	}

	if err := os.MkdirAll(r.Paths.WorkDir, 0o755); err != nil {
		return res, flaterrors.Join(err, errPreparing)
	}

	if res.OriginalDigest, err = artifact.Digest(r.Paths.PrimaryImage); err != nil {
		return res, flaterrors.Join(err, errValidating)
	}

	objdump := subenv.ObjdumpPath(r)
	h.diagnose(ctx, log, &res, req.Env, objdump, r.Paths.PrimaryImage)

	if req.Board.RelinkEnabled {
		if err := h.relink(ctx, log, &res, req, objdump); err != nil {
			return res, err
		}
	} else {
		log.Info("Relink disabled for this board: keeping the original image")
	}

	// Delete the old secondary artifact so the packager regenerates it from
	// the primary image. Boards with relinking disabled do it too.
	removed, err := artifact.Invalidate(r.Paths.SecondaryArtifact)
	if err != nil {
		if res.State == StateSwapped {
			log.Error("Primary image already replaced but secondary artifact is stale: delete it by hand",
				"primary", r.Paths.PrimaryImage, "backup", r.Paths.BackupImage,
				"secondary", r.Paths.SecondaryArtifact, "error", err)
		}

		return res, err
	}

	res.SecondaryRemoved = removed
	if removed {
		log.Info("Invalidated secondary artifact", "path", r.Paths.SecondaryArtifact)
	}

	if res.State != StateSwapped {
		res.State = StateInvalidated
	}

	log.Info("Relink succeeded", "state", res.State)

	return res, nil
}

func (h *Hook) relink(ctx context.Context, log *slog.Logger, res *Result, req Request, objdump string) error {
	r := res.Resolved

	// IV. Build the sub-build environment
	res.State = StateBuildEnv
	env := subenv.Build(req.Env, r)

	// A relinked image left over from an earlier run must never be swapped in.
	if err := os.Remove(r.Paths.RelinkedImage); err != nil && !errors.Is(err, os.ErrNotExist) {
		return flaterrors.Join(err, errPreparing)
	}

	// V. Invoke
	res.State = StateInvoke
	log.Info("Running relink sub-build",
		"command", strings.Join(req.Board.SubBuildCommand, " "), "dir", r.Paths.ResourceDir)

	outcome := Invoker{Runner: h.runner()}.Invoke(ctx, req.Board.SubBuildCommand, env, r.Paths.ResourceDir)
	if !outcome.Success {
		h.relay(outcome)
		log.Error("Build failed in relink sub-build", "exit_code", outcome.ExitCode)

		return flaterrors.Join(outcome.Err(), errRelinking)
	}

	if _, err := os.Stat(r.Paths.RelinkedImage); err != nil {
		return flaterrors.Join(&relinkerr.PreconditionError{
			Name:   "relinked image",
			Path:   r.Paths.RelinkedImage,
			Reason: "was not produced by the sub-build",
		}, errRelinking)
	}

	h.diagnose(ctx, log, res, req.Env, objdump, r.Paths.RelinkedImage)

	// VI. Swap
	log.Info("Replacing primary image", "path", r.Paths.PrimaryImage, "backup", r.Paths.BackupImage)

	if err := artifact.Swap(r.Paths.PrimaryImage, r.Paths.BackupImage, r.Paths.RelinkedImage); err != nil {
		return flaterrors.Join(err, errSwapping)
	}

	digest, err := artifact.Digest(r.Paths.PrimaryImage)
	if err != nil {
		return flaterrors.Join(err, errSwapping)
	}

	res.RelinkedDigest = digest
	res.State = StateSwapped
	log.Info("Swapped primary image", "before", res.OriginalDigest, "after", res.RelinkedDigest)

	return nil
}

func (h *Hook) diagnose(ctx context.Context, log *slog.Logger, res *Result, env map[string]string, objdump, image string) {
	if err := SectionDump(ctx, h.runner(), writerOrDiscard(h.Stdout), env, objdump, image); err != nil {
		log.Warn("Section dump failed", "error", err)
		res.Warnings = append(res.Warnings, err)
	}
}

// relay prints the captured sub-build output verbatim.
func (h *Hook) relay(o Outcome) {
	w := writerOrDiscard(h.Stderr)

	_, _ = fmt.Fprintf(w, "Build failed in %s:\n", strings.Join(o.Command, " "))
	_, _ = io.WriteString(w, o.Stdout)
	_, _ = io.WriteString(w, o.Stderr)

	if o.Error != "" {
		_, _ = fmt.Fprintln(w, o.Error)
	}
}

func (h *Hook) runner() cmdutil.Runner {
	if h.Runner == nil {
		return cmdutil.NewRunner()
	}

	return h.Runner
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}

	return w
}
