// Package board holds the per-board relink data: where each board's toolchain
// pieces live by default, which environment variable overrides them, and how
// the board's relink recipe is run.
//
// Boards differ only in data. Everything that decides what to do with that data
// lives in the resolve, validate and relink packages.
package board

import (
	"sort"
)

// Role names the logical purpose of a toolchain location.
type Role string

const (
	// RoleToolchain is the compiler toolchain bin directory.
	RoleToolchain Role = "toolchain"
	// RoleBinutils is the binary-utilities bin directory (objdump, nm, objcopy).
	RoleBinutils Role = "binutils"
	// RoleDeviceLib is the device-support library root.
	RoleDeviceLib Role = "device-library"
)

// LocationSpec describes how a single toolchain location is found.
type LocationSpec struct {
	// Role is the logical name of the location.
	Role Role `json:"role"`
	// OverrideVar is the environment variable that replaces the default.
	OverrideVar string `json:"overrideVar"`
	// Default is a path template. `$VAR` and `${VAR}` references are expanded
	// against the environment snapshot, e.g. "$HOME/.platformio/packages/...".
	Default string `json:"default"`
	// RequireAbsolute rejects relative paths even when the default was used.
	RequireAbsolute bool `json:"requireAbsolute"`
}

// Board is one relink-capable board variant.
type Board struct {
	// Name is the build-output directory leaf name, e.g. "due".
	Name string `json:"name"`

	Toolchain LocationSpec `json:"toolchain"`
	Binutils  LocationSpec `json:"binutils"`
	DeviceLib LocationSpec `json:"deviceLib"`

	// DeviceLibSubdir is joined onto the device library root before it is
	// handed to the sub-build.
	DeviceLibSubdir string `json:"deviceLibSubdir"`
	// SecondaryArtifact is the packaged file (relative to the build dir) that
	// must be regenerated once the primary image changes.
	SecondaryArtifact string `json:"secondaryArtifact"`
	// SubBuildCommand is run in the board's resource dir.
	SubBuildCommand []string `json:"subBuildCommand"`
	// RelinkEnabled turns the sub-build and image swap on. When off, the hook
	// still runs diagnostics and invalidates the secondary artifact.
	RelinkEnabled bool `json:"relinkEnabled"`
}

// Locations returns the board's location specs in validation order.
func (b Board) Locations() []LocationSpec {
	return []LocationSpec{b.Toolchain, b.Binutils, b.DeviceLib}
}

// OverrideVars returns the environment variables an operator may set for b.
func (b Board) OverrideVars() []string {
	out := make([]string, 0, 3)
	for _, loc := range b.Locations() {
		out = append(out, loc.OverrideVar)
	}

	return out
}

// ----------------------------------------------------- REGISTRY --------------------------------------------------- //

// Registry is a lookup table of boards keyed by name.
type Registry struct {
	boards map[string]Board
}

// NewRegistry returns a registry holding the given boards. Later boards with
// the same name replace earlier ones.
func NewRegistry(boards ...Board) *Registry {
	r := &Registry{boards: make(map[string]Board, len(boards))}
	for _, b := range boards {
		r.Put(b)
	}

	return r
}

// Put adds or replaces a board.
func (r *Registry) Put(b Board) {
	r.boards[b.Name] = b
}

// Lookup returns the board registered under name.
func (r *Registry) Lookup(name string) (Board, bool) {
	b, ok := r.boards[name]
	return b, ok
}

// Names returns the registered board names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.boards))
	for name := range r.boards {
		out = append(out, name)
	}

	sort.Strings(out)

	return out
}
