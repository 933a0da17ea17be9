// ABOUTME: Console logger construction for readlog commands
// ABOUTME: Writes human-readable zap output to stderr so stdout stays clean for tables and CSV

package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a config level name to a zap level. Unknown names fall
// back to warn. A non-empty DEBUG environment variable forces debug.
func ParseLevel(name string) zapcore.Level {
	if os.Getenv("DEBUG") != "" {
		return zapcore.DebugLevel
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return zapcore.WarnLevel
	}
	return level
}

// New returns a console logger on stderr at the named level.
func New(level string) *zap.Logger {
	return NewWriter(os.Stderr, ParseLevel(level))
}

// NewWriter returns a console logger writing to w.
func NewWriter(w io.Writer, level zapcore.Level) *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core, zap.AddCaller())
}
