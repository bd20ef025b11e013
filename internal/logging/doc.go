// Package logger provides leveled console logging for nodekeys.
//
// The logger supports verbosity levels controlled by command-line flags.
// Output is prefixed with a colored tag from github.com/fatih/color.
//
// # Verbosity Levels
//
//   - --verbose: Shows info and warning messages
//   - --debug: Shows all messages including debug details and errors
//
// Without flags only WarnfAlways output is printed.
//
// Every level writes to stderr so stdout carries only command output.
//
// # Log Methods
//
//	Logger.Infof()           // Shown with --verbose or --debug
//	Logger.Debugf()          // Shown only with --debug
//	Logger.Warnf()           // Shown with --verbose or --debug
//	Logger.WarnfAlways()     // Always shown
//	Logger.Errorf()          // Shown with --debug
//	Logger.ErrorfAndReturn() // Errorf, then returns the message as an error
//
// The zero Logger is silent apart from WarnfAlways, which makes it the
// natural default for library callers such as the node resolver.
package logger
