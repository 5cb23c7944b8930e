package logger

import (
	"go.uber.org/zap"
)

type Logger struct {
	l *zap.SugaredLogger
}

func New(l *zap.Logger) *Logger {
	return &Logger{l: l.Sugar()}
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	return New(zap.NewNop())
}

// NewZap builds the underlying zap logger for the given environment name.
func NewZap(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

func (l *Logger) LogErrorf(format string, v ...any) {
	l.l.Errorf(format, v...)
}

func (l *Logger) LogInfo(format string, v ...any) {
	l.l.Infof(format, v...)
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{l: l.l.With(keysAndValues...)}
}

func (l *Logger) Sync() error {
	return l.l.Sync()
}
