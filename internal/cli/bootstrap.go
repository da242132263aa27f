package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexandremahdhaoui/ez-relink/internal/version"
	"github.com/spf13/cobra"
)

// Config holds the configuration for CLI bootstrap.
type Config struct {
	// Name is the command name (e.g., "relink")
	Name  string
	Short string
	Long  string

	// Version information (typically set via ldflags)
	Version        string
	CommitSHA      string
	BuildTimestamp string

	// Commands are the subcommands of the root command.
	Commands []*cobra.Command

	// RunMCP serves the tool over MCP stdio (optional).
	// If nil, no "mcp" subcommand is registered.
	RunMCP func(ctx context.Context, info *version.Info) error

	// SuccessHandler is called when a command completes successfully (optional)
	SuccessHandler func()

	// FailureHandler is called when a command returns an error (optional)
	// Receives the error and should print it appropriately
	FailureHandler func(error)
}

// Info returns the version information of cfg.
func (cfg Config) Info() *version.Info {
	info := version.New(cfg.Name)
	if cfg.Version != "" {
		info.Version = cfg.Version
	}
	if cfg.CommitSHA != "" {
		info.CommitSHA = cfg.CommitSHA
	}
	if cfg.BuildTimestamp != "" {
		info.BuildTimestamp = cfg.BuildTimestamp
	}

	return info
}

// NewRootCommand assembles the root command: cfg.Commands plus "version" and,
// when cfg.RunMCP is set, "mcp".
func NewRootCommand(cfg Config) *cobra.Command {
	info := cfg.Info()

	root := &cobra.Command{
		Use:           cfg.Name,
		Short:         cfg.Short,
		Long:          cfg.Long,
		Version:       info.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(cfg.Commands...)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info.Fprint(cmd.OutOrStdout())
			return nil
		},
	})

	if cfg.RunMCP != nil {
		root.AddCommand(&cobra.Command{
			Use:   "mcp",
			Short: "Serve as an MCP server over stdio",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return cfg.RunMCP(cmd.Context(), info)
			},
		})
	}

	return root
}

// Execute runs the root command with args and returns the process exit code.
func Execute(ctx context.Context, cfg Config, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(cfg)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		if cfg.FailureHandler != nil {
			cfg.FailureHandler(err)
		} else {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		}

		if errors.Is(err, context.Canceled) {
			return 130
		}

		return 1
	}

	if cfg.SuccessHandler != nil {
		cfg.SuccessHandler()
	}

	return 0
}

// Bootstrap provides a unified entry point for the command.
// It handles the version and mcp subcommands, interrupts, and exit codes.
//
// This function will call os.Exit and never return.
func Bootstrap(cfg Config) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := Execute(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
