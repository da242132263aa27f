//go:build unit

package validate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexandremahdhaoui/ez-relink/internal/relinkerr"
	"github.com/alexandremahdhaoui/ez-relink/internal/resolve"
	"github.com/alexandremahdhaoui/ez-relink/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveProject(t *testing.T, p *testutil.Project) resolve.Resolved {
	t.Helper()

	r, err := resolve.Resolve(p.Board, p.Env, p.Dir, "")
	require.NoError(t, err)

	return r
}

func TestCheck_AllPresent(t *testing.T) {
	p := testutil.NewProject(t, "due")

	assert.NoError(t, Check(resolveProject(t, p)))
}

func TestCheck_MissingOverrideDir(t *testing.T) {
	p := testutil.NewProject(t, "due")
	missing := filepath.Join(p.Home, "does-not-exist")
	p.Env["GCC_BIN"] = missing

	err := Check(resolveProject(t, p))
	require.Error(t, err)

	var unresolved *relinkerr.UnresolvedPathError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "GCC_BIN", unresolved.OverrideVar)
	assert.Equal(t, missing, unresolved.Path)
}

func TestCheck_FirstFailureWins(t *testing.T) {
	p := testutil.NewProject(t, "due")
	p.Env["GCC_BIN"] = filepath.Join(p.Home, "no-gcc")
	p.Env["ARDUINO_SAM"] = filepath.Join(p.Home, "no-sam")

	var unresolved *relinkerr.UnresolvedPathError
	require.True(t, errors.As(Check(resolveProject(t, p)), &unresolved))
	assert.Equal(t, "GCC_BIN", unresolved.OverrideVar)
}

func TestCheck_RelativeOverride(t *testing.T) {
	p := testutil.NewProject(t, "due")

	// "." exists relative to the test's working directory.
	p.Env["ARDUINO_SAM"] = "."

	var precondition *relinkerr.PreconditionError
	require.True(t, errors.As(Check(resolveProject(t, p)), &precondition))
	assert.Equal(t, "ARDUINO_SAM", precondition.OverrideVar)
	assert.Equal(t, reasonNotAbsolute, precondition.Reason)
}

func TestCheck_OverrideIsAFile(t *testing.T) {
	p := testutil.NewProject(t, "due")
	file := filepath.Join(p.Home, "gcc")
	p.WriteFile(file, "not a dir")
	p.Env["GCC_BIN"] = file

	var precondition *relinkerr.PreconditionError
	require.True(t, errors.As(Check(resolveProject(t, p)), &precondition))
	assert.Equal(t, reasonNotDir, precondition.Reason)
}

func TestCheck_ProjectLayout(t *testing.T) {
	tests := []struct {
		name     string
		remove   func(p *testutil.Project) string
		wantType any
	}{
		{
			name: "missing build dir",
			remove: func(p *testutil.Project) string {
				return p.BuildDir()
			},
			wantType: &relinkerr.UnresolvedPathError{},
		},
		{
			name: "missing resource dir",
			remove: func(p *testutil.Project) string {
				return p.ResourceDir()
			},
			wantType: &relinkerr.UnresolvedPathError{},
		},
		{
			name: "missing primary image",
			remove: func(p *testutil.Project) string {
				return filepath.Join(p.BuildDir(), "firmware.elf")
			},
			wantType: &relinkerr.PreconditionError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.NewProject(t, "due")
			require.NoError(t, os.RemoveAll(tt.remove(p)))

			err := Check(resolveProject(t, p))
			require.Error(t, err)
			assert.IsType(t, tt.wantType, err)
		})
	}
}
