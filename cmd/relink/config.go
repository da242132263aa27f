package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexandremahdhaoui/ez-relink/internal/board"
	"github.com/alexandremahdhaoui/ez-relink/internal/cmdutil"
	"github.com/alexandremahdhaoui/ez-relink/internal/logging"
	"github.com/alexandremahdhaoui/ez-relink/internal/subenv"
	"github.com/alexandremahdhaoui/ez-relink/internal/util"
	"github.com/alexandremahdhaoui/ez-relink/pkg/flaterrors"
	"github.com/caarlos0/env/v11"
	"github.com/gookit/color"
)

// Envs is the tool configuration, read from the environment.
type Envs struct {
	ProjectDir string `env:"RELINK_PROJECT_DIR" usage:"PlatformIO project root (default: working directory)"`
	BuildRoot  string `env:"RELINK_BUILD_ROOT" envDefault:".pio/build" usage:"build output root"`
	ConfigPath string `env:"RELINK_CONFIG" envDefault:".relink.yaml" usage:"board overlay file"`
	// EnvFile is read before resolution. Variables already set in the
	// environment take precedence over the file.
	EnvFile   string `env:"RELINK_ENV_FILE" usage:"dotenv file with override variables"`
	LogLevel  string `env:"RELINK_LOG_LEVEL" envDefault:"info" usage:"debug, info, warn or error"`
	LogFormat string `env:"RELINK_LOG_FORMAT" envDefault:"cli" usage:"cli or json"`
	NoColor   bool   `env:"NO_COLOR" usage:"disable coloured log output"`
}

// app holds the process inputs of every command, so tests can swap them.
type app struct {
	environ func() []string
	getwd   func() (string, error)
	// colorable reports whether the log writer supports colours.
	colorable func() bool
}

func newApp() *app {
	return &app{
		environ:   os.Environ,
		getwd:     os.Getwd,
		colorable: color.SupportColor,
	}
}

// settings is everything a command needs, derived from the environment.
type settings struct {
	Envs Envs
	// Env is the environment snapshot merged with the env file.
	Env        map[string]string
	ProjectDir string
	Registry   *board.Registry
	Logger     *slog.Logger
}

var errLoadingSettings = errors.New("loading relink settings")

// load reads the configuration: environment first, then the env file, then
// the board overlay relative to the project dir. Logs go to logOut.
func (a *app) load(logOut io.Writer) (settings, error) {
	// I. Parse the environment snapshot
	snapshot := subenv.FromEnviron(a.environ())

	envs, err := parseEnvs(snapshot)
	if err != nil {
		return settings{}, flaterrors.Join(err, errLoadingSettings)
	}

	// II. Locate the project
	projectDir, err := a.projectDir(envs)
	if err != nil {
		return settings{}, flaterrors.Join(err, errLoadingSettings)
	}

	// III. Merge the env file; the file may also set RELINK_* variables.
	if envs.EnvFile != "" {
		fromFile, err := cmdutil.LoadEnvFile(inProject(projectDir, envs.EnvFile))
		if err != nil {
			return settings{}, flaterrors.Join(err, errLoadingSettings)
		}

		snapshot = cmdutil.MergeEnv(snapshot, fromFile)
		if envs, err = parseEnvs(snapshot); err != nil {
			return settings{}, flaterrors.Join(err, errLoadingSettings)
		}
	}

	// IV. Build the logger
	mode, err := logging.ParseMode(envs.LogFormat)
	if err != nil {
		return settings{}, flaterrors.Join(err, errLoadingSettings)
	}

	level, err := logging.ParseLevel(envs.LogLevel)
	if err != nil {
		return settings{}, flaterrors.Join(err, errLoadingSettings)
	}

	logger := logging.New(logOut, logging.Options{
		Mode:  mode,
		Level: level,
		Color: !envs.NoColor && a.colorable(),
	})

	// V. Load the board table
	registry, err := board.LoadRegistry(inProject(projectDir, envs.ConfigPath))
	if err != nil {
		return settings{}, flaterrors.Join(err, errLoadingSettings)
	}

	return settings{
		Envs:       envs,
		Env:        snapshot,
		ProjectDir: projectDir,
		Registry:   registry,
		Logger:     logger,
	}, nil
}

func parseEnvs(snapshot map[string]string) (Envs, error) {
	envs := Envs{} //nolint:exhaustruct // unmarshal

	if err := env.ParseWithOptions(&envs, env.Options{Environment: snapshot}); err != nil {
		return Envs{}, err
	}

	return envs, nil
}

func (a *app) projectDir(envs Envs) (string, error) {
	dir := envs.ProjectDir
	if dir == "" {
		wd, err := a.getwd()
		if err != nil {
			return "", err
		}

		dir = wd
	}

	return filepath.Abs(dir)
}

func inProject(projectDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(projectDir, path)
}

// longHelp documents the tool variables and the per-board override variables.
func longHelp() string {
	var b strings.Builder

	b.WriteString("relink runs after the PlatformIO build of a board: it relinks firmware.elf\n")
	b.WriteString("against an alternate device library through the board's sub-build in\n")
	b.WriteString("res/<board>, swaps the result in (keeping firmware.elf.bak) and deletes the\n")
	b.WriteString("packaged artifact so it is regenerated.\n\n")
	b.WriteString("Environment Variables:\n")
	b.WriteString(util.FormatExpectedEnvList[Envs]())
	b.WriteString("\nBoard Override Variables:\n")
	b.WriteString(util.FormatEnvList(overrideVars(board.DefaultRegistry())))

	return b.String()
}

// overrideVars lists every location override variable of r once.
func overrideVars(r *board.Registry) []util.EnvVar {
	seen := make(map[string]int)
	out := make([]util.EnvVar, 0)

	for _, name := range r.Names() {
		b, _ := r.Lookup(name)

		for _, loc := range b.Locations() {
			if i, ok := seen[loc.OverrideVar]; ok {
				out[i].Usage = appendBoard(out[i].Usage, name)
				continue
			}

			seen[loc.OverrideVar] = len(out)
			out = append(out, util.EnvVar{
				Name:  loc.OverrideVar,
				Usage: fmt.Sprintf("%s dir for %s", loc.Role, name),
			})
		}
	}

	return out
}

func appendBoard(usage, name string) string {
	return usage + ", " + name
}
