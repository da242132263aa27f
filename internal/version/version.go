// Package version reports build information of the relink binary.
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

const (
	defaultVersion = "dev"
	unknown        = "unknown"
)

// Info holds version information for a tool.
type Info struct {
	// ToolName is the name of the tool
	ToolName string
	// Version is set via ldflags or from build info
	Version string
	// CommitSHA is set via ldflags or from build info
	CommitSHA string
	// BuildTimestamp is set via ldflags or from build info
	BuildTimestamp string
}

// Get returns version information, falling back to the module build info for
// values not set via ldflags.
func (i *Info) Get() (version, commit, timestamp string) {
	version = i.Version
	commit = i.CommitSHA
	timestamp = i.BuildTimestamp

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit, timestamp
	}

	// go install sets the module version.
	if version == defaultVersion && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if commit == unknown && len(setting.Value) >= 7 {
				commit = setting.Value[:7]
			}
		case "vcs.time":
			if timestamp == unknown {
				timestamp = setting.Value
			}
		}
	}

	return version, commit, timestamp
}

// Fprint writes the full version report to w.
func (i *Info) Fprint(w io.Writer) {
	version, commit, timestamp := i.Get()
	_, _ = fmt.Fprintf(w, "%s version %s\n", i.ToolName, version)
	_, _ = fmt.Fprintf(w, "  commit:    %s\n", commit)
	_, _ = fmt.Fprintf(w, "  built:     %s\n", timestamp)
	_, _ = fmt.Fprintf(w, "  go:        %s\n", runtime.Version())
	_, _ = fmt.Fprintf(w, "  platform:  %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// String returns a one-line version string.
func (i *Info) String() string {
	version, _, _ := i.Get()
	return fmt.Sprintf("%s version %s", i.ToolName, version)
}

// Short returns the resolved version alone.
func (i *Info) Short() string {
	version, _, _ := i.Get()
	return version
}

// New creates a new Info with default values.
func New(toolName string) *Info {
	return &Info{
		ToolName:       toolName,
		Version:        defaultVersion,
		CommitSHA:      unknown,
		BuildTimestamp: unknown,
	}
}
