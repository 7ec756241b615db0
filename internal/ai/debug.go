package ai

import "sync/atomic"

// debugLoggingEnabled gates per-frame debug logs of controllers.
// Checking an atomic is cheaper than slog.Enabled on every tick.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging is called once from main when log_level is debug.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if controller debug logging is on.
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
