// Package artifact rewires firmware images in the build-output tree.
//
// Nothing here copies image bytes: a swap is two renames, so the image that
// lands in place is exactly the file the sub-build wrote.
package artifact

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexandremahdhaoui/ez-relink/pkg/flaterrors"
	"lukechampine.com/blake3"
)

var (
	errSwapping     = errors.New("swapping primary image")
	errInvalidating = errors.New("invalidating secondary artifact")
	errDigesting    = errors.New("digesting artifact")
)

// Swap moves primary to backup, overwriting any previous backup, then moves
// replacement to primary.
//
// If the second rename fails, the first is undone so that primary is left as
// it was.
func Swap(primary, backup, replacement string) error {
	if _, err := os.Stat(replacement); err != nil {
		return flaterrors.Join(err, errSwapping)
	}

	if err := os.Rename(primary, backup); err != nil {
		return flaterrors.Join(err, errSwapping)
	}

	if err := os.Rename(replacement, primary); err != nil {
		if rerr := os.Rename(backup, primary); rerr != nil {
			return flaterrors.Join(err, fmt.Errorf("restoring %s: %w", primary, rerr), errSwapping)
		}

		return flaterrors.Join(err, errSwapping)
	}

	return nil
}

// Invalidate deletes a derived artifact so the packaging step regenerates it.
// A missing file is not an error; removed reports whether a file was deleted.
func Invalidate(path string) (removed bool, err error) {
	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, flaterrors.Join(err, errInvalidating)
	}

	if !info.Mode().IsRegular() {
		return false, flaterrors.Join(fmt.Errorf("%s is not a regular file", path), errInvalidating) //nolint:err113
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, flaterrors.Join(err, errInvalidating)
	}

	return true, nil
}

// Digest returns the hex BLAKE3-256 digest of the file at path.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", flaterrors.Join(err, errDigesting)
	}
	defer f.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", flaterrors.Join(err, errDigesting)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
