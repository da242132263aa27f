// Package cmdutil runs external commands and captures their result.
//
// This package includes:
//   - ExecuteInput/ExecuteOutput types for command execution
//   - Runner, the single place where child processes are spawned and exit
//     statuses are mapped
//   - LoadEnvFile for loading environment variables from files
package cmdutil
