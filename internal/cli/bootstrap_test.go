//go:build unit

package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alexandremahdhaoui/ez-relink/internal/version"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(run func(cmd *cobra.Command, args []string) error) Config {
	return Config{
		Name:           "test-cmd",
		Version:        "1.0.0",
		CommitSHA:      "abc123",
		BuildTimestamp: "2024-01-01",
		Commands: []*cobra.Command{{
			Use:  "hello",
			RunE: run,
		}},
	}
}

func TestConfigInfo(t *testing.T) {
	info := testConfig(nil).Info()

	assert.Equal(t, "test-cmd", info.ToolName)
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, "abc123", info.CommitSHA)
	assert.Equal(t, "2024-01-01", info.BuildTimestamp)

	// Unset values keep the defaults.
	info = Config{Name: "test-cmd"}.Info()
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "unknown", info.CommitSHA)
}

func TestNewRootCommand(t *testing.T) {
	t.Run("without MCP", func(t *testing.T) {
		root := NewRootCommand(testConfig(nil))

		names := make([]string, 0)
		for _, c := range root.Commands() {
			names = append(names, c.Name())
		}

		assert.ElementsMatch(t, []string{"hello", "version"}, names)
	})

	t.Run("with MCP", func(t *testing.T) {
		cfg := testConfig(nil)
		cfg.RunMCP = func(context.Context, *version.Info) error { return nil }

		root := NewRootCommand(cfg)
		cmd, _, err := root.Find([]string{"mcp"})
		require.NoError(t, err)
		assert.Equal(t, "mcp", cmd.Name())
	})
}

func TestExecute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		called, succeeded := false, false
		cfg := testConfig(func(*cobra.Command, []string) error {
			called = true
			return nil
		})
		cfg.SuccessHandler = func() { succeeded = true }

		var stdout, stderr bytes.Buffer
		code := Execute(context.Background(), cfg, []string{"hello"}, &stdout, &stderr)

		assert.Equal(t, 0, code)
		assert.True(t, called)
		assert.True(t, succeeded)
		assert.Empty(t, stderr.String())
	})

	t.Run("failure", func(t *testing.T) {
		testErr := errors.New("test error")

		var received error
		cfg := testConfig(func(*cobra.Command, []string) error { return testErr })
		cfg.FailureHandler = func(err error) { received = err }

		var stdout, stderr bytes.Buffer
		code := Execute(context.Background(), cfg, []string{"hello"}, &stdout, &stderr)

		assert.Equal(t, 1, code)
		assert.ErrorIs(t, received, testErr)
	})

	t.Run("failure without handler", func(t *testing.T) {
		cfg := testConfig(func(*cobra.Command, []string) error { return errors.New("boom") })

		var stdout, stderr bytes.Buffer
		code := Execute(context.Background(), cfg, []string{"hello"}, &stdout, &stderr)

		assert.Equal(t, 1, code)
		assert.Equal(t, "Error: boom\n", stderr.String())
	})

	t.Run("interrupted", func(t *testing.T) {
		cfg := testConfig(func(*cobra.Command, []string) error { return context.Canceled })
		cfg.FailureHandler = func(error) {}

		var stdout, stderr bytes.Buffer
		assert.Equal(t, 130, Execute(context.Background(), cfg, []string{"hello"}, &stdout, &stderr))
	})

	t.Run("version", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := Execute(context.Background(), testConfig(nil), []string{"version"}, &stdout, &stderr)

		assert.Equal(t, 0, code)
		assert.Contains(t, stdout.String(), "test-cmd version 1.0.0\n")
		assert.Contains(t, stdout.String(), "commit:    abc123")
	})

	t.Run("mcp", func(t *testing.T) {
		var got *version.Info
		cfg := testConfig(nil)
		cfg.RunMCP = func(_ context.Context, info *version.Info) error {
			got = info
			return nil
		}

		var stdout, stderr bytes.Buffer
		code := Execute(context.Background(), cfg, []string{"mcp"}, &stdout, &stderr)

		assert.Equal(t, 0, code)
		require.NotNil(t, got)
		assert.Equal(t, "1.0.0", got.Version)
	})

	t.Run("unknown command", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, 1, Execute(context.Background(), testConfig(nil), []string{"nope"}, &stdout, &stderr))
	})
}
