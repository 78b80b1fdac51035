// Package logging builds the zap logger shared by the CLI and TUI.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/baiirun/tickets/internal/config"
)

// NewLogger creates a console zap.Logger at the configured level. Unknown
// or empty levels fall back to warn. The TUI owns the terminal, so callers running it
// should point cfg.File at a file.
func NewLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	// zapcore.Level.Set accepts "" as info, so empty is handled here.
	level := zapcore.WarnLevel
	if cfg.Level != "" {
		if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
			level = zapcore.WarnLevel
		}
	}

	output := "stderr"
	if cfg.File != "" {
		output = cfg.File
	}

	zapCfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(level),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:  "message",
			LevelKey:    "level",
			TimeKey:     "ts",
			EncodeLevel: zapcore.CapitalLevelEncoder,
			EncodeTime:  zapcore.ISO8601TimeEncoder,
		},
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapCfg.Build()
}
