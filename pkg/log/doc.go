// Package log provides structured protocol logging for the pub/sub client.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events at multiple layers (transport, wire, client).
// It is separate from operational logging (slog) - protocol capture provides
// a complete machine-readable event trace for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/solwatch/client.slog")
//
//	// Both: use MultiLogger
//	cfg.ProtocolLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    log.NewFileLogger("/var/log/solwatch/client.slog"),
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: connection lifecycle (StateChangeEvent)
//   - Wire: decoded messages (MessageEvent)
//   - Client: correlation and dispatch errors (ErrorEventData)
//
// # File Format
//
// Log files use CBOR encoding with integer keys and a .slog extension;
// the Reader type iterates and filters them back out.
package log
