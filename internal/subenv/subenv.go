// Package subenv assembles the process environment handed to the relink
// sub-build.
//
// The overlay key set is the same on every board; only the values differ.
package subenv

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alexandremahdhaoui/ez-relink/internal/resolve"
)

// Overlay keys, as read by the relink recipes.
const (
	KeyHostCXX      = "HOST_CXX"
	KeyCXX          = "CXX"
	KeyNM           = "NM"
	KeyObjcopy      = "OBJCOPY"
	KeyDeviceLibDir = "DEVICE_LIB_DIR"
	KeyRelinkDir    = "RELINK_DIR"
	KeyToolsDir     = "TOOLS_DIR"
	KeyBuildDir     = "BUILD_DIR"
)

// Keys lists the overlay keys in a stable order.
var Keys = []string{
	KeyHostCXX,
	KeyCXX,
	KeyNM,
	KeyObjcopy,
	KeyDeviceLibDir,
	KeyRelinkDir,
	KeyToolsDir,
	KeyBuildDir,
}

const (
	hostCXX   = "g++"
	targetCXX = "arm-none-eabi-g++"
	nm        = "llvm-nm"
	objcopy   = "llvm-objcopy"
	// Objdump is the section-dump tool in the binutils dir.
	Objdump = "llvm-objdump"
)

// Overlay returns the fixed bindings the sub-build requires for r.
func Overlay(r resolve.Resolved) map[string]string {
	return map[string]string{
		KeyHostCXX:      hostCXX,
		KeyCXX:          filepath.Join(r.Locations.Toolchain.Path, targetCXX),
		KeyNM:           filepath.Join(r.Locations.Binutils.Path, nm),
		KeyObjcopy:      filepath.Join(r.Locations.Binutils.Path, objcopy),
		KeyDeviceLibDir: filepath.Join(r.Locations.DeviceLib.Path, r.Board.DeviceLibSubdir),
		KeyRelinkDir:    r.Paths.WorkDir,
		KeyToolsDir:     r.Paths.ToolsDir,
		KeyBuildDir:     r.Paths.BuildDir,
	}
}

// Build returns inherited overlaid with Overlay(r). Overlay values always win.
// inherited is not modified.
func Build(inherited map[string]string, r resolve.Resolved) map[string]string {
	out := make(map[string]string, len(inherited)+len(Keys))
	for k, v := range inherited {
		out[k] = v
	}

	for k, v := range Overlay(r) {
		out[k] = v
	}

	return out
}

// ObjdumpPath returns the section-dump tool of r.
func ObjdumpPath(r resolve.Resolved) string {
	return filepath.Join(r.Locations.Binutils.Path, Objdump)
}

// FromEnviron parses "KEY=VALUE" entries as returned by os.Environ. Entries
// without '=' are ignored; later duplicates win.
func FromEnviron(environ []string) map[string]string {
	out := make(map[string]string, len(environ))

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}

		out[k] = v
	}

	return out
}

// Environ renders env as sorted "KEY=VALUE" entries.
func Environ(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}

	sort.Strings(out)

	return out
}

// ExportScript renders the overlay as shell export lines, so the recipe can be
// rerun by hand from the resource dir.
func ExportScript(overlay map[string]string) string {
	var b strings.Builder

	for _, k := range Keys {
		v, ok := overlay[k]
		if !ok {
			continue
		}

		_, _ = fmt.Fprintf(&b, "export %s=%s\n", k, shellQuote(v))
	}

	return b.String()
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"$`\\;&|<>(){}*?#~") {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
