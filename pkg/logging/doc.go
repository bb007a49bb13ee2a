// Package logging provides structured logging configuration for mockapi.
//
// This package wraps log/slog so every mockapi component logs the same way.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("server started", "port", 3000)
//	logger.Warn("database reload failed", "error", err)
//
// # Output Formats
//
//   - Text: human-readable format for development
//   - JSON: structured format for log aggregation systems
//
// Use NewMultiHandler to send the same records to more than one destination,
// for example stderr and an access log file.
//
// # Integration
//
// Components accept a *slog.Logger in their constructor or via an option.
// If no logger is provided, they use logging.Nop().
package logging
