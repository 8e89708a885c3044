package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogLevel(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	lvl := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger := NewWithWriter(&buf, "logtest", lvl, JSONEncoder)

	logger.Debug("hidden")
	r.Zero(buf.Len())

	logger.Info("shown", ZTempo(120), ZPosition(1.5))
	var entry map[string]any
	r.NoError(json.Unmarshal(buf.Bytes(), &entry))
	r.Equal("shown", entry["msg"])
	r.Equal("logtest", entry["logger"])
	r.Equal(120.0, entry["tempo"])
	r.Equal(1.5, entry["position"])

	buf.Reset()
	lvl.SetLevel(zapcore.DebugLevel)
	logger.Debug("now visible")
	r.Contains(buf.String(), "now visible")
}

func TestInstantField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "instant", zap.NewAtomicLevelAt(zapcore.InfoLevel), JSONEncoder)
	logger.Info("started", ZInstant(time.UnixMilli(1_700_000_000_250)))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Contains(t, entry, "instant")
}

func TestConsoleFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "console", zap.NewAtomicLevelAt(zapcore.InfoLevel), "unknown")
	logger.Info("plain", ZDrift(0.07))
	require.True(t, strings.Contains(buf.String(), "plain"))
	require.False(t, json.Valid(buf.Bytes()))
}

func TestParseLevel(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want zapcore.Level
		err  bool
	}{
		{in: "debug", want: zapcore.DebugLevel},
		{in: " WARN ", want: zapcore.WarnLevel},
		{in: "error", want: zapcore.ErrorLevel},
		{in: "loud", err: true},
	} {
		t.Run(tc.in, func(t *testing.T) {
			lvl, err := ParseLevel(tc.in)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, lvl.Level())
		})
	}
}
