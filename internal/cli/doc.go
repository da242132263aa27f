// Package cli bootstraps the command binary on top of cobra.
//
// Bootstrap builds a root command from the given subcommands and adds:
//   - a "version" subcommand and --version flag, from ldflags-set values
//   - an "mcp" subcommand when RunMCP is set
//   - interrupt handling and standardized exit codes
//
// Example usage:
//
//	// Version information (set via ldflags)
//	var (
//	    Version        = "dev"
//	    CommitSHA      = "unknown"
//	    BuildTimestamp = "unknown"
//	)
//
//	func main() {
//	    cli.Bootstrap(cli.Config{
//	        Name:           "relink",
//	        Version:        Version,
//	        CommitSHA:      CommitSHA,
//	        BuildTimestamp: BuildTimestamp,
//	        Commands:       []*cobra.Command{newRunCommand()},
//	        RunMCP:         runMCP,
//	    })
//	}
package cli
