// Package utils provides small helpers shared by the CLI.
//
// # I/O Utilities
//
//   - ReadInput: reads a listing file, or stdin for "-"
//   - ReadStdin: reads piped data from standard input
//
// # Terminal Utilities
//
//   - ReadSecret: prompts for a key without echoing it (golang.org/x/term)
//   - IsTerminal: terminal detection
//
// # System Utilities
//
//   - GetUsername: returns the current system username
package utils
