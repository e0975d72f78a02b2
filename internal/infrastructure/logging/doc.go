// Package logging provides structured logging for the door lock nodes.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across both nodes.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for bench work (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version).ForNode("back")
//	logger.Info("mode changed", "mode", "main_menu")
//
// # Security
//
// Never log password bytes. Log lengths and attempt numbers instead.
package logging
