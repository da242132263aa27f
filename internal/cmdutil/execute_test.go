//go:build unit

package cmdutil

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func run(input ExecuteInput) ExecuteOutput {
	return NewRunner().Run(context.Background(), input)
}

func TestExecuteCommand_SimpleSuccess(t *testing.T) {
	output := run(ExecuteInput{
		Command: "echo",
		Args:    []string{"hello"},
	})

	if !output.Succeeded() {
		t.Errorf("Expected success, got exit code %d (error: %s)", output.ExitCode, output.Error)
	}
	if !strings.Contains(output.Stdout, "hello") {
		t.Errorf("Expected stdout to contain 'hello', got: %q", output.Stdout)
	}
}

func TestExecuteCommand_NonZeroExit(t *testing.T) {
	output := run(ExecuteInput{
		Command: "sh",
		Args:    []string{"-c", "echo out; echo err >&2; exit 42"},
	})

	if output.ExitCode != 42 {
		t.Errorf("Expected exit code 42, got %d", output.ExitCode)
	}
	if output.Error != "" {
		t.Errorf("Expected no spawn error for a non-zero exit, got: %s", output.Error)
	}
	if output.Stdout != "out\n" || output.Stderr != "err\n" {
		t.Errorf("Expected separated output, got stdout=%q stderr=%q", output.Stdout, output.Stderr)
	}
	if output.Succeeded() {
		t.Error("Expected Succeeded() to be false")
	}
}

func TestExecuteCommand_InvalidCommand(t *testing.T) {
	output := run(ExecuteInput{
		Command: "nonexistentcommandthatdoesnotexist12345",
	})

	if output.ExitCode != -1 {
		t.Errorf("Expected exit code -1 for invalid command, got %d", output.ExitCode)
	}
	if output.Error == "" {
		t.Error("Expected error message for invalid command")
	}
}

func TestExecuteCommand_WithWorkDir(t *testing.T) {
	tmpDir := t.TempDir()

	output := run(ExecuteInput{
		Command: "pwd",
		WorkDir: tmpDir,
	})

	if output.ExitCode != 0 {
		t.Errorf("Expected exit code 0, got %d (error: %s)", output.ExitCode, output.Error)
	}

	// Output should contain the temp directory path
	if !strings.Contains(output.Stdout, filepath.Base(tmpDir)) {
		t.Errorf("Expected stdout to contain temp dir, got: %q", output.Stdout)
	}
}

func TestExecuteCommand_EnvIsAuthoritative(t *testing.T) {
	t.Setenv("CMDUTIL_TEST_VAR", "system_value")

	output := run(ExecuteInput{
		Command: "/bin/sh",
		Args:    []string{"-c", `echo "[$CMDUTIL_TEST_VAR][$CMDUTIL_ONLY_CHILD]"`},
		Env: map[string]string{
			"CMDUTIL_ONLY_CHILD": "child_value",
		},
	})

	if output.ExitCode != 0 {
		t.Fatalf("Expected exit code 0, got %d (error: %s)", output.ExitCode, output.Error)
	}
	// The process environment must not leak into an explicit Env.
	if strings.TrimSpace(output.Stdout) != "[][child_value]" {
		t.Errorf("Expected only the explicit env, got: %q", output.Stdout)
	}
}

func TestExecuteCommand_NilEnvInherits(t *testing.T) {
	t.Setenv("CMDUTIL_TEST_VAR", "system_value")

	output := run(ExecuteInput{
		Command: "sh",
		Args:    []string{"-c", "echo $CMDUTIL_TEST_VAR"},
	})

	if !strings.Contains(output.Stdout, "system_value") {
		t.Errorf("Expected stdout to contain 'system_value', got: %q", output.Stdout)
	}
}

func TestExecuteCommand_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	output := NewRunner().Run(ctx, ExecuteInput{
		Command: "sleep",
		Args:    []string{"5"},
	})

	if output.Succeeded() {
		t.Error("Expected a cancelled command not to succeed")
	}
}

func TestExecuteInput_Argv(t *testing.T) {
	in := ExecuteInput{Command: "make", Args: []string{"-j1", "all"}}

	got := strings.Join(in.Argv(), " ")
	if got != "make -j1 all" {
		t.Errorf("Expected 'make -j1 all', got %q", got)
	}
}
