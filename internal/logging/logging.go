// Package logging builds the zap logger bam writes to. The TUI owns the
// terminal, so log output always goes to a file or another writer.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bam/internal/config"
)

// ParseLevel converts a config log level to a zap level. Unknown and empty
// values mean info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case config.LogLevelDebug:
		return zapcore.DebugLevel
	case config.LogLevelWarn:
		return zapcore.WarnLevel
	case config.LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a JSON logger writing to w at level.
func New(w io.Writer, level string) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(ParseLevel(level)),
	)
	return zap.New(core)
}

// Setup opens the log file from settings and returns a logger writing to it
// along with a function that flushes and closes the file.
func Setup(settings config.LogSettings) (*zap.Logger, func(), error) {
	if settings.File == "" {
		return zap.NewNop(), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(settings.File), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(settings.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open log file: %w", err)
	}

	logger := New(f, settings.Level)
	cleanup := func() {
		_ = logger.Sync()
		_ = f.Close()
	}
	return logger, cleanup, nil
}
