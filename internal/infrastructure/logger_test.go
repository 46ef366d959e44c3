package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoreline/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestNewLogger_InjectsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := newLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "console"}, &buf)
	require.NoError(t, err)
	defer closeFn()

	ctx := WithTraceID(context.Background(), "abc-123")
	logger.InfoContext(ctx, "hello", slog.Int("n", 1))
	logger.DebugContext(ctx, "filtered")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "exactly one JSON line expected")
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "abc-123", entry["trace_id"])
	assert.EqualValues(t, 1, entry["n"])
}

func TestNewLogger_TextFormatWithGroup(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := newLogger(config.LoggingConfig{Level: "debug", Format: "text"}, &buf)
	require.NoError(t, err)

	logger.WithGroup("req").With(slog.String("path", "/x")).Debug("served")
	assert.Contains(t, buf.String(), "req.path=/x")
	assert.Contains(t, buf.String(), "msg=served")
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	var console bytes.Buffer

	logger, closeFn, err := newLogger(config.LoggingConfig{Format: "json", Output: "both", FilePath: path}, &console)
	require.NoError(t, err)

	logger.Info("to both")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, console.String(), "to both")
}

func TestNewLogger_FileOutputRequiresPath(t *testing.T) {
	_, closeFn, err := newLogger(config.LoggingConfig{Output: "file"}, &bytes.Buffer{})
	assert.Error(t, err)
	assert.NoError(t, closeFn())
}

func TestTraceIDHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = EnsureTraceID(ctx)
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)
	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)), "existing ID is kept")
}

func TestLoggerWithContext(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	LoggerWithContext(WithTraceID(context.Background(), "t-1"), base).Info("x")
	assert.Contains(t, buf.String(), `"trace_id":"t-1"`)

	assert.Same(t, base, LoggerWithContext(context.Background(), base))
	assert.NotNil(t, LoggerWithContext(context.Background(), nil))
}
