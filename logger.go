package warpgrid

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// loggerPtr stores the active logger. Accessed atomically because the asset
// decode workers log from their own goroutines.
var loggerPtr atomic.Pointer[zap.Logger]

func init() {
	loggerPtr.Store(zap.NewNop())
}

// SetLogger configures the logger used by warpgrid. By default nothing is
// logged. Pass nil to restore the silent default.
//
// Levels used:
//   - Debug: per-frame timing stats (when Config.Debug is set)
//   - Info: lifecycle events (startup, resize, shutdown)
//   - Warn: non-fatal problems (undecodable asset, inactive program)
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *zap.Logger {
	return loggerPtr.Load()
}
