// Package logging builds the zap logger shared by the CLI and the TUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects where log lines go. Path is a log file opened in append
// mode; Writer takes precedence over Path when set.
type Config struct {
	Debug  bool
	Path   string
	Writer io.Writer
}

// NewLogger returns a console-encoded zap logger. With neither Path nor Writer
// it returns a no-op logger so the TUI's screen is never written to.
// The returned close func releases the log file, if any.
func NewLogger(cfg Config) (*zap.Logger, func() error, error) {
	noClose := func() error { return nil }

	var sink zapcore.WriteSyncer
	closer := noClose
	switch {
	case cfg.Writer != nil:
		sink = zapcore.AddSync(cfg.Writer)
	case cfg.Path != "":
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, noClose, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, noClose, fmt.Errorf("failed to open log file: %w", err)
		}
		sink = zapcore.AddSync(file)
		closer = file.Close
	default:
		return zap.NewNop(), noClose, nil
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	level := zap.InfoLevel
	if cfg.Debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		sink,
		level,
	)

	logger := zap.New(core, zap.AddCaller())
	return logger, func() error {
		_ = logger.Sync()
		return closer()
	}, nil
}
