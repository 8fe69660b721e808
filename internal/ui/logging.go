package ui

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a printf-style facade over a zap core.
type Logger struct {
	Debug bool
	s     *zap.SugaredLogger
}

// NewLogger writes "[LEVEL] message" lines to stdout.
func NewLogger(debug bool) *Logger {
	return NewLoggerTo(os.Stdout, debug)
}

// NewLoggerTo is NewLogger with a different sink. Progress mode sends
// log lines to stderr so they do not tear the bars.
func NewLoggerTo(w io.Writer, debug bool) *Logger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		EncodeLevel:      bracketLevel,
		ConsoleSeparator: " ",
		LineEnding:       zapcore.DefaultLineEnding,
	})

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	return NewLoggerWithCore(zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), level), debug)
}

func NewLoggerWithCore(core zapcore.Core, debug bool) *Logger {
	return &Logger{Debug: debug, s: zap.New(core).Sugar()}
}

func bracketLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + l.CapitalString() + "]")
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.Debug {
		l.s.Debugf(format, args...)
	}
}

func (l *Logger) Infof(format string, args ...any) {
	l.s.Infof(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.s.Warnf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.s.Errorf(format, args...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() {
	_ = l.s.Sync()
}
