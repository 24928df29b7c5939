// Package logging provides structured logging for strictvalue.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON, text, and console output formats
//   - Configurable log levels (debug, info, warn, error)
//   - Context-aware logging with run IDs, rule names, and source files
//
// Logs are written to stderr by default so that lint reports on stdout can be
// piped to other tools.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "lint run complete", "findings", 3)
//
// Library packages take a *slog.Logger; pass logger.Slog() to them.
package logging
