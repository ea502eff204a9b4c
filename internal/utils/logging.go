package utils

import (
	"go.uber.org/zap"
)

// Logger is a thin wrapper over zap's sugared logger so call sites can pass
// loose key/value pairs without importing zap everywhere.
type Logger struct {
	l *zap.SugaredLogger
}

func NewLogger() *Logger {
	z, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return &Logger{l: z.Sugar()}
}

// NewNopLogger discards everything; used in tests.
func NewNopLogger() *Logger {
	return &Logger{l: zap.NewNop().Sugar()}
}

// NewLoggerFromZap wraps an existing zap logger, e.g. one built on an
// observer core in tests.
func NewLoggerFromZap(z *zap.Logger) *Logger {
	return &Logger{l: z.Sugar()}
}

func (lg *Logger) Info(msg string, kv ...any)  { lg.l.Infow(msg, kv...) }
func (lg *Logger) Warn(msg string, kv ...any)  { lg.l.Warnw(msg, kv...) }
func (lg *Logger) Error(msg string, kv ...any) { lg.l.Errorw(msg, kv...) }
func (lg *Logger) Debug(msg string, kv ...any) { lg.l.Debugw(msg, kv...) }

func (lg *Logger) Sync() { _ = lg.l.Sync() }
