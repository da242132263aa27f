// Package flaterrors joins errors into a single flat chain.
//
// It behaves like errors.Join, except that nested joined errors are unwrapped
// first so that the resulting error never contains a tree of joins. This keeps
// messages printed by the CLI readable (one cause per line) while keeping every
// member reachable through errors.Is and errors.As.
package flaterrors

import (
	"errors"
)

// Join returns an error wrapping the given errors. Nil errors are discarded and
// any error exposing `Unwrap() []error` is flattened into its members.
// Join returns nil if every argument is nil.
func Join(errs ...error) error {
	flat := make([]error, 0, len(errs))

	for _, err := range errs {
		flat = appendFlat(flat, err)
	}

	if len(flat) == 0 {
		return nil
	}

	return errors.Join(flat...)
}

func appendFlat(dst []error, err error) []error {
	if err == nil {
		return dst
	}

	joined, ok := err.(interface{ Unwrap() []error }) //nolint:errorlint // only direct joins are flattened
	if !ok {
		return append(dst, err)
	}

	for _, member := range joined.Unwrap() {
		dst = appendFlat(dst, member)
	}

	return dst
}
