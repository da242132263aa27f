//go:build unit

package relink

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alexandremahdhaoui/ez-relink/internal/cmdutil"
	"github.com/alexandremahdhaoui/ez-relink/internal/relinkerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	out cmdutil.ExecuteOutput
	got []cmdutil.ExecuteInput
}

func (f *fakeRunner) Run(_ context.Context, in cmdutil.ExecuteInput) cmdutil.ExecuteOutput {
	f.got = append(f.got, in)
	return f.out
}

func TestInvoke(t *testing.T) {
	env := map[string]string{"CXX": "/gcc/arm-none-eabi-g++"}

	t.Run("success", func(t *testing.T) {
		runner := &fakeRunner{out: cmdutil.ExecuteOutput{Stdout: "ok\n"}}

		outcome := Invoker{Runner: runner}.Invoke(context.Background(), []string{"make", "-j1"}, env, "/p/res/due")

		assert.True(t, outcome.Success)
		assert.NoError(t, outcome.Err())
		require.Len(t, runner.got, 1)
		assert.Equal(t, "make", runner.got[0].Command)
		assert.Equal(t, []string{"-j1"}, runner.got[0].Args)
		assert.Equal(t, "/p/res/due", runner.got[0].WorkDir)
		assert.Equal(t, env, runner.got[0].Env)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		runner := &fakeRunner{out: cmdutil.ExecuteOutput{ExitCode: 2, Stdout: "out", Stderr: "err"}}

		outcome := Invoker{Runner: runner}.Invoke(context.Background(), []string{"make"}, env, "/p/res/due")
		assert.False(t, outcome.Success)

		var subBuild *relinkerr.SubBuildError
		require.True(t, errors.As(outcome.Err(), &subBuild))
		assert.Equal(t, 2, subBuild.ExitCode)
		assert.Equal(t, "out", subBuild.Stdout)
		assert.Equal(t, "err", subBuild.Stderr)
		assert.Equal(t, "build failed in make (exit code 2)", subBuild.Error())
	})

	t.Run("empty command", func(t *testing.T) {
		runner := &fakeRunner{}

		outcome := Invoker{Runner: runner}.Invoke(context.Background(), nil, env, "/p/res/due")

		assert.False(t, outcome.Success)
		assert.Empty(t, runner.got)
		assert.Error(t, outcome.Err())
	})
}

func TestSectionDump(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		runner := &fakeRunner{out: cmdutil.ExecuteOutput{Stdout: "Sections:\n"}}
		var buf bytes.Buffer

		err := SectionDump(context.Background(), runner, &buf, nil, "/llvm/llvm-objdump", "/b/firmware.elf")

		require.NoError(t, err)
		assert.Equal(t, "Sections:\n", buf.String())
		assert.Equal(t, []string{"/llvm/llvm-objdump", "-h", "/b/firmware.elf"}, runner.got[0].Argv())
	})

	t.Run("failure", func(t *testing.T) {
		runner := &fakeRunner{out: cmdutil.ExecuteOutput{ExitCode: -1, Error: "llvm-objdump: executable not found"}}
		var buf bytes.Buffer

		err := SectionDump(context.Background(), runner, &buf, nil, "/llvm/llvm-objdump", "/b/firmware.elf")

		var diag *relinkerr.DiagnosticError
		require.True(t, errors.As(err, &diag))
		assert.Equal(t, -1, diag.ExitCode)
		assert.False(t, relinkerr.IsFatal(err))
	})
}
