// Package log provides zap logger construction shared by tempomesh components.
//
// Components accept a *zap.Logger through options and default to a nop logger,
// so the package only deals with building the root logger for binaries.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// ConsoleEncoder logs plain text.
	ConsoleEncoder = "console"
	// JSONEncoder logs one JSON object per line.
	JSONEncoder = "json"
)

// where logs go by default.
var logWriter io.Writer = os.Stdout

// New creates a named logger with a dynamic level and the given encoder kind.
// Unknown encoder kinds fall back to the console encoder.
func New(name string, level zap.AtomicLevel, encoder string) *zap.Logger {
	return NewWithWriter(logWriter, name, level, encoder)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, name string, level zap.AtomicLevel, encoder string) *zap.Logger {
	core := zapcore.NewCore(newEncoder(encoder), zapcore.AddSync(w), level)
	return zap.New(core).Named(name)
}

// NewNop creates silent logger.
func NewNop() *zap.Logger {
	return zap.NewNop()
}

// ParseLevel parses a case-insensitive level name such as "debug" or "WARN".
func ParseLevel(lvl string) (zap.AtomicLevel, error) {
	level, err := zap.ParseAtomicLevel(strings.ToLower(strings.TrimSpace(lvl)))
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("parse log level %q: %w", lvl, err)
	}
	return level, nil
}

func newEncoder(kind string) zapcore.Encoder {
	if kind == JSONEncoder {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}
