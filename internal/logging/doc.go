// Package logging provides structured logging utilities for the mailsift application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Consistent attribute naming across the codebase
//   - Log level and format parsing for CLI flags
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "gmail.search")
//	logger.Info("listing messages",
//	    logging.Query(query),
//	    logging.Status(logging.StatusSuccess))
package logging
