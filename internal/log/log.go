// Package log holds logger construction helpers and a struct of
// decode-level debug knobs. No other package in this module imports it.
package log

import "go.uber.org/zap"

// NewDevelopment builds a human-readable logger, the default for the
// command-line tools.
func NewDevelopment() (*zap.Logger, error) {
	return zap.NewDevelopment()
}

// NewProduction builds a JSON logger suited to long-running services.
func NewProduction() (*zap.Logger, error) {
	return zap.NewProduction()
}

// OrNop returns logger unchanged, or a no-op logger if logger is nil. The
// client and server constructors do not call it; they require a non-nil
// *zap.Logger.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// Fields holds two decode-level logging flags, one for frame bytes and one
// for PDU bytes. The frame, physical, client and server layers do not read
// them, and none of those layers logs wire bytes.
type Fields struct {
	LogFrameBytes bool
	LogPDUBytes   bool
}
