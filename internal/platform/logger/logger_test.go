package logger

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/internbook/internbook-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name   string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			level, ok := ParseLevel(tc.name)
			assert.Equal(t, tc.want, level)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}

func TestSetupWritesJSONWithProcessMetadata(t *testing.T) {
	restoreDefault(t)
	buf := &TestLogBuffer{}

	logger := setup(buf, config.ServerConfig{LogLevel: "info"}, slog.Int("worker_id", 3))
	logger.Debug("hidden")
	logger.Info("visible", "key", "value")
	slog.Info("via default")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "visible", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])
	assert.Equal(t, float64(3), entries[0]["worker_id"])
	assert.Equal(t, float64(os.Getpid()), entries[0]["pid"])
	assert.Equal(t, "via default", entries[1]["msg"])
}

func TestSetupInvalidLevelFallsBackToInfo(t *testing.T) {
	restoreDefault(t)
	buf := &TestLogBuffer{}

	logger := setup(buf, config.ServerConfig{LogLevel: "chatty"})
	logger.Debug("hidden")
	logger.Info("shown")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["msg"])
}

func TestProcessHandlerKeepsMetadataThroughWith(t *testing.T) {
	buf := &TestLogBuffer{}
	logger := slog.New(NewProcessHandler(buf, nil, slog.String("role", "supervisor")))

	logger.With("component", "monitor").WithGroup("worker").Info("spawned", "seq", 1)

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "monitor", entries[0]["component"])
	assert.NotNil(t, entries[0]["worker"])
}

func TestContextHelpers(t *testing.T) {
	restoreDefault(t)
	buf, base := SetupTestLogger(t)

	t.Run("FromContext falls back to default", func(t *testing.T) {
		assert.Same(t, slog.Default(), FromContext(context.Background()))
	})

	t.Run("FromContextOrDefault prefers context then fallback", func(t *testing.T) {
		fallback := slog.New(slog.NewJSONHandler(&TestLogBuffer{}, nil))
		assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))

		ctx := WithLogger(context.Background(), base)
		assert.Same(t, base, FromContextOrDefault(ctx, fallback))
	})

	t.Run("WithRequestID tags later records", func(t *testing.T) {
		buf.Reset()
		ctx := WithRequestID(WithLogger(context.Background(), base), "req-42")

		assert.Equal(t, "req-42", RequestID(ctx))
		FromContext(ctx).Info("handled")

		entries, err := buf.GetLogEntries()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "req-42", entries[0]["request_id"])
	})
}
