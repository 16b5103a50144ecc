package cli

import "go.uber.org/zap"

// watchLogger wraps zap for verbose debug output with watch context.
type watchLogger struct {
	logger *zap.Logger
	roots  []string
}

func newWatchLogger(globals *Globals, roots []string) *watchLogger {
	if globals == nil || !globals.Verbose {
		return &watchLogger{logger: zap.NewNop()}
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.Encoding = "json"
	logger, err := cfg.Build()
	if err != nil {
		return &watchLogger{logger: zap.NewNop()}
	}
	return &watchLogger{
		logger: logger.With(zap.Strings("roots", roots)),
		roots:  roots,
	}
}

// Zap exposes the underlying logger for engine components
func (l *watchLogger) Zap() *zap.Logger { return l.logger }

func (l *watchLogger) Debug(msg string, fields ...zap.Field) {
	l.logger.Debug(msg, fields...)
}

func (l *watchLogger) Sync() {
	_ = l.logger.Sync()
}
