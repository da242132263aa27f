// Package testutil builds throwaway PlatformIO-like projects with a fake
// toolchain, so the relink hook can be exercised end to end in unit tests.
package testutil

// TestingT is the subset of testing.T methods that we use.
// This allows for easier testing of the testutil package itself.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...interface{})
}
