// Package relink orchestrates the post-build relink of a board's firmware.
//
// A run walks Identify → Resolve → Validate → BuildEnv → Invoke and then
// either swaps the relinked image into the build tree and invalidates the
// secondary artifact, or aborts. Nothing in the build-output dir is touched
// before the sub-build has succeeded.
//
// Boards with relinking disabled stop after the pre-relink diagnostic and only
// invalidate the secondary artifact.
package relink
