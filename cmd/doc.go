// Package cmd implements the command-line interface for mailsift.
//
// This package provides the following commands:
//   - run: Execute a Gmail query and extract attachment text into records
//   - token: Perform the one-time OAuth consent flow and print credentials
//   - version: Display version information
//
// The run command is the default command when no subcommand is specified.
package cmd
