// Package validate gates the relink hook on its preconditions.
//
// Checks run in a fixed order and stop at the first failure: a build hook
// operator fixes one problem, reruns the build, and sees the next one.
package validate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexandremahdhaoui/ez-relink/internal/relinkerr"
	"github.com/alexandremahdhaoui/ez-relink/internal/resolve"
)

const (
	reasonNotAbsolute = "must be an absolute path"
	reasonNotDir      = "is not a directory"
	reasonNotFile     = "is not a regular file"
	reasonNoImage     = "not found: the upstream build did not produce it"
)

// Check validates r: toolchain locations first, then the build output and
// resource dirs, then the primary image.
func Check(r resolve.Resolved) error {
	for _, loc := range r.Locations.All() {
		if err := checkLocation(loc); err != nil {
			return err
		}
	}

	if err := checkDir("build output", r.Paths.BuildDir, resolve.BuildRootVar); err != nil {
		return err
	}

	if err := checkDir("resource", r.Paths.ResourceDir, ""); err != nil {
		return err
	}

	return checkPrimaryImage(r.Paths.PrimaryImage)
}

func checkLocation(loc resolve.Location) error {
	name := string(loc.Spec.Role)

	if err := checkDir(name, loc.Path, loc.Spec.OverrideVar); err != nil {
		return err
	}

	mustBeAbs := loc.Source == resolve.SourceOverride || loc.Spec.RequireAbsolute
	if mustBeAbs && !filepath.IsAbs(loc.Path) {
		return &relinkerr.PreconditionError{
			Name:        name,
			Path:        loc.Path,
			OverrideVar: loc.Spec.OverrideVar,
			Reason:      reasonNotAbsolute,
		}
	}

	return nil
}

func checkDir(name, path, overrideVar string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return &relinkerr.UnresolvedPathError{Name: name, Path: path, OverrideVar: overrideVar}
	}
	if err != nil {
		return &relinkerr.PreconditionError{
			Name:        name,
			Path:        path,
			OverrideVar: overrideVar,
			Reason:      fmt.Sprintf("cannot be inspected (%v)", err),
		}
	}

	if !info.IsDir() {
		return &relinkerr.PreconditionError{Name: name, Path: path, OverrideVar: overrideVar, Reason: reasonNotDir}
	}

	return nil
}

func checkPrimaryImage(path string) error {
	const name = "primary image"

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return &relinkerr.PreconditionError{Name: name, Path: path, Reason: reasonNoImage}
	}
	if err != nil {
		return &relinkerr.PreconditionError{Name: name, Path: path, Reason: fmt.Sprintf("cannot be inspected (%v)", err)}
	}

	if !info.Mode().IsRegular() {
		return &relinkerr.PreconditionError{Name: name, Path: path, Reason: reasonNotFile}
	}

	return nil
}
