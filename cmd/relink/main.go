package main

import (
	"fmt"
	"os"

	"github.com/alexandremahdhaoui/ez-relink/internal/cli"
	"github.com/spf13/cobra"
)

const Name = "relink"

// Version information (set via ldflags during build)
var (
	Version        = "dev"
	CommitSHA      = "unknown"
	BuildTimestamp = "unknown"
)

// ----------------------------------------------------- MAIN ------------------------------------------------------- //

func main() {
	a := newApp()

	cli.Bootstrap(cli.Config{
		Name:           Name,
		Short:          "Relink PlatformIO firmware against an alternate device library",
		Long:           longHelp(),
		Version:        Version,
		CommitSHA:      CommitSHA,
		BuildTimestamp: BuildTimestamp,
		Commands: []*cobra.Command{
			a.newRunCommand(),
			a.newBoardsCommand(),
			a.newEnvCommand(),
		},
		RunMCP:         a.runMCPServer,
		FailureHandler: printFailure,
	})
}

// ----------------------------------------------------- PRINT HELPERS ----------------------------------------------- //

func printFailure(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "❌ Relink failed\n%s\n", err.Error())
}
