package ai

import "sync/atomic"

// debugLoggingEnabled controls whether debug logging is enabled for AI subsystem.
// Checked on hot paths (every poll, every state change) instead of asking slog.
// Set via EnableDebugLogging() during initialization based on config.Arena.LogLevel.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables debug logging for AI subsystem.
// Must be called during initialization (e.g., from main.go after parsing config).
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if debug logging is enabled.
// Use this to guard debug log calls on the tick path:
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("enemy state changed", "objectID", id, "to", state)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
