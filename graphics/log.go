package graphics

import (
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

// SetLogger routes lifecycle and error logging to l. A nil l restores
// slog.Default().
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

// Logger returns the logger used by this package and the adapters.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}
