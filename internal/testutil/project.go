package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/alexandremahdhaoui/ez-relink/internal/board"
)

const (
	// OriginalImage is the content of the primary image a fresh Project starts with.
	OriginalImage = "original image"
	// OriginalSecondary is the content of the secondary artifact a fresh Project starts with.
	OriginalSecondary = "original packaged binary"
	// RelinkedImage is what SubBuildSuccess writes as the relinked image.
	RelinkedImage = "relinked image"

	// SubBuildScript is the recipe file name inside the resource dir.
	SubBuildScript = "relink.sh"

	// SubBuildSuccess writes the relinked image and records its environment.
	SubBuildSuccess = `#!/bin/sh
set -e
echo "relinking in $(pwd)"
env > "$RELINK_DIR/env.txt"
printf '` + RelinkedImage + `' > "$RELINK_DIR/firmware.elf"
`
	// SubBuildFailure mimics a link error.
	SubBuildFailure = `#!/bin/sh
echo "linking firmware.elf"
echo "ld: undefined reference to 'vasprintf'" >&2
exit 2
`
	objdumpOK = `#!/bin/sh
echo "Sections:"
echo "Idx Name Size"
`
	objdumpFail = `#!/bin/sh
echo "llvm-objdump: error: not an object file" >&2
exit 1
`
)

// Project is a throwaway PlatformIO-like project tree with a fake toolchain.
type Project struct {
	T TestingT

	// Dir is the project root (the hook's working directory).
	Dir       string
	Home      string
	GCCDir    string
	LLVMDir   string
	DeviceDir string

	Board board.Board
	// Env is a complete environment snapshot pointing at the fake toolchain.
	Env map[string]string
}

// NewProject lays out a project for boardName taken from the built-in table.
// The board's sub-build runs SubBuildScript through sh, so tests decide the
// outcome with SetSubBuild.
func NewProject(t *testing.T, boardName string) *Project {
	t.Helper()

	b, ok := board.DefaultRegistry().Lookup(boardName)
	if !ok {
		t.Fatalf("unknown board %q", boardName)
	}

	b.SubBuildCommand = []string{"sh", SubBuildScript}

	root := t.TempDir()
	p := &Project{
		T:         t,
		Dir:       filepath.Join(root, "project"),
		Home:      filepath.Join(root, "home"),
		GCCDir:    filepath.Join(root, "toolchain", "gcc", "bin"),
		LLVMDir:   filepath.Join(root, "toolchain", "llvm", "bin"),
		DeviceDir: filepath.Join(root, "framework"),
		Board:     b,
	}

	for _, dir := range []string{p.Home, p.GCCDir, p.LLVMDir, p.DeviceDir, p.ResourceDir(), p.BuildDir()} {
		mkdirAll(t, dir)
	}

	p.WriteFile(filepath.Join(p.BuildDir(), "firmware.elf"), OriginalImage)
	p.WriteFile(filepath.Join(p.BuildDir(), b.SecondaryArtifact), OriginalSecondary)
	p.SetObjdump(true)
	p.SetSubBuild(SubBuildSuccess)

	p.Env = map[string]string{
		"HOME":                  p.Home,
		"PATH":                  os.Getenv("PATH"),
		board.GCCBinVar:         p.GCCDir,
		board.LLVMBinVar:        p.LLVMDir,
		b.DeviceLib.OverrideVar: p.DeviceDir,
	}

	return p
}

// BuildDir returns the board's build-output dir.
func (p *Project) BuildDir() string {
	return filepath.Join(p.Dir, ".pio", "build", p.Board.Name)
}

// ResourceDir returns the board's resource dir.
func (p *Project) ResourceDir() string {
	return filepath.Join(p.Dir, "res", p.Board.Name)
}

// WorkDir returns the board's relink working dir.
func (p *Project) WorkDir() string {
	return filepath.Join(p.Dir, ".relink", p.Board.Name)
}

// UseDefaultLocations unsets the toolchain and device library overrides and
// creates their default directories, expanded against Env (so under Home).
// It returns the toolchain and device library dirs.
func (p *Project) UseDefaultLocations() (toolchain, deviceLib string) {
	p.T.Helper()

	dirs := make([]string, 0, 2)
	for _, spec := range []board.LocationSpec{p.Board.Toolchain, p.Board.DeviceLib} {
		delete(p.Env, spec.OverrideVar)

		dir := os.Expand(spec.Default, func(name string) string { return p.Env[name] })
		mkdirAll(p.T, dir)

		dirs = append(dirs, dir)
	}

	p.GCCDir, p.DeviceDir = dirs[0], dirs[1]

	return dirs[0], dirs[1]
}

// SetSubBuild replaces the sub-build recipe script.
func (p *Project) SetSubBuild(script string) {
	p.WriteFile(filepath.Join(p.ResourceDir(), SubBuildScript), script)
}

// SetObjdump installs a fake llvm-objdump that succeeds or fails.
func (p *Project) SetObjdump(ok bool) {
	script := objdumpFail
	if ok {
		script = objdumpOK
	}

	WriteScript(p.T, filepath.Join(p.LLVMDir, "llvm-objdump"), script)
}

// WriteFile writes content to path, creating parent dirs.
func (p *Project) WriteFile(path, content string) {
	mkdirAll(p.T, filepath.Dir(path))

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		p.T.Fatalf("Failed to write %s: %v", path, err)
	}
}

// ReadFile returns the content of path, failing the test if it cannot be read.
func (p *Project) ReadFile(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		p.T.Fatalf("Failed to read %s: %v", path, err)
	}

	return string(b)
}

// Snapshot maps every regular file under dir (relative path) to its content.
func (p *Project) Snapshot(dir string) map[string]string {
	out := make(map[string]string)

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		out[rel] = string(b)

		return nil
	})
	if err != nil {
		p.T.Fatalf("Failed to snapshot %s: %v", dir, err)
	}

	return out
}

// Names returns the sorted keys of a Snapshot.
func Names(snapshot map[string]string) []string {
	out := make([]string, 0, len(snapshot))
	for k := range snapshot {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}

// WriteScript writes an executable script.
func WriteScript(t TestingT, path, content string) {
	t.Helper()

	mkdirAll(t, filepath.Dir(path))

	if err := os.WriteFile(path, []byte(content), 0o755); err != nil { //nolint:gosec // test helper script
		t.Fatalf("Failed to write script %s: %v", path, err)
	}
}

func mkdirAll(t TestingT, dir string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create %s: %v", dir, err)
	}
}
