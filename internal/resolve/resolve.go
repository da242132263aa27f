// Package resolve computes every absolute path the relink hook needs for a
// board. It only builds strings: nothing here touches the filesystem.
package resolve

import (
	"os"
	"path/filepath"

	"github.com/alexandremahdhaoui/ez-relink/internal/board"
	"github.com/alexandremahdhaoui/ez-relink/internal/relinkerr"
)

const (
	// DefaultBuildRoot is where PlatformIO writes per-board build output.
	DefaultBuildRoot = ".pio/build"
	// PrimaryImageName is the linked image inside a board's build dir.
	PrimaryImageName = "firmware.elf"
	// BackupSuffix is appended to the primary image when it is swapped out.
	BackupSuffix = ".bak"

	// BuildRootVar is the tool setting that moves the build root.
	BuildRootVar = "RELINK_BUILD_ROOT"

	resourceRoot = "res"
	workRoot     = ".relink"
	toolsRoot    = "tools"
)

// Source tells where a location's value came from.
type Source string

const (
	SourceOverride Source = "override"
	SourceDefault  Source = "default"
)

// Location is a resolved toolchain location.
type Location struct {
	Spec   board.LocationSpec
	Path   string
	Source Source
}

// Locations groups the resolved toolchain locations of a board.
type Locations struct {
	Toolchain Location
	Binutils  Location
	DeviceLib Location
}

// All returns the locations in validation order.
func (l Locations) All() []Location {
	return []Location{l.Toolchain, l.Binutils, l.DeviceLib}
}

// BuildPaths are the project-derived paths of a board.
type BuildPaths struct {
	ProjectDir string
	// BuildDir is produced by the upstream build and must pre-exist.
	BuildDir string
	// ResourceDir holds the relink recipe and must pre-exist.
	ResourceDir string
	// WorkDir holds relink intermediates; created on demand.
	WorkDir  string
	ToolsDir string

	PrimaryImage      string
	BackupImage       string
	RelinkedImage     string
	SecondaryArtifact string
}

// Resolved is everything the hook needs to know about where things live.
type Resolved struct {
	Board     board.Board
	Locations Locations
	Paths     BuildPaths
}

// Resolve computes the locations and paths of b.
//
// Each location takes env[OverrideVar] when set and non-empty, else the board
// default with `$VAR` references expanded from env. projectDir should be
// absolute; a relative buildRoot is taken relative to projectDir.
func Resolve(b board.Board, env map[string]string, projectDir, buildRoot string) (Resolved, error) {
	out := Resolved{Board: b} //nolint:exhaustruct // filled below

	var err error
	if out.Locations.Toolchain, err = resolveLocation(b.Toolchain, env); err != nil {
		return Resolved{}, err
	}
	if out.Locations.Binutils, err = resolveLocation(b.Binutils, env); err != nil {
		return Resolved{}, err
	}
	if out.Locations.DeviceLib, err = resolveLocation(b.DeviceLib, env); err != nil {
		return Resolved{}, err
	}

	out.Paths = buildPaths(b, projectDir, buildRoot)

	return out, nil
}

func resolveLocation(spec board.LocationSpec, env map[string]string) (Location, error) {
	if v := env[spec.OverrideVar]; v != "" {
		return Location{Spec: spec, Path: v, Source: SourceOverride}, nil
	}

	missing := ""
	path := os.Expand(spec.Default, func(name string) string {
		v, ok := env[name]
		if !ok && missing == "" {
			missing = name
		}

		return v
	})

	if missing != "" {
		return Location{}, &relinkerr.UnresolvedPathError{
			Name:        string(spec.Role),
			Path:        spec.Default,
			OverrideVar: spec.OverrideVar,
		}
	}

	return Location{Spec: spec, Path: path, Source: SourceDefault}, nil
}

func buildPaths(b board.Board, projectDir, buildRoot string) BuildPaths {
	if buildRoot == "" {
		buildRoot = DefaultBuildRoot
	}
	if !filepath.IsAbs(buildRoot) {
		buildRoot = filepath.Join(projectDir, buildRoot)
	}

	buildDir := filepath.Join(buildRoot, b.Name)
	workDir := filepath.Join(projectDir, workRoot, b.Name)
	primary := filepath.Join(buildDir, PrimaryImageName)

	return BuildPaths{
		ProjectDir:        projectDir,
		BuildDir:          buildDir,
		ResourceDir:       filepath.Join(projectDir, resourceRoot, b.Name),
		WorkDir:           workDir,
		ToolsDir:          filepath.Join(projectDir, toolsRoot),
		PrimaryImage:      primary,
		BackupImage:       primary + BackupSuffix,
		RelinkedImage:     filepath.Join(workDir, PrimaryImageName),
		SecondaryArtifact: filepath.Join(buildDir, b.SecondaryArtifact),
	}
}
