package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel, format string) (*TamerLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(&LoggerConfig{Level: level, Format: format, Output: &buf}), &buf
}

func TestLogLevelString(t *testing.T) {
	testCases := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelFatal, "FATAL"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, "text")
	ctx := context.Background()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	assert.Empty(t, buf.String())

	logger.Warn(ctx, nil, "warn message")
	assert.Contains(t, buf.String(), "warn message")
}

func TestWarnCarriesErrorAndFields(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, "json")

	logger.WithComponent("discovery").Warn(context.Background(),
		errors.New("unexpected end of JSON input"),
		"Skipping package with invalid manifest",
		"package", "pkg-bad")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "discovery", entry["component"])
	assert.Equal(t, "pkg-bad", entry["package"])
	assert.Equal(t, "unexpected end of JSON input", entry["error"])
}

func TestWithDoesNotMutateParent(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, "text")
	child := logger.With("platform", "android")

	logger.Info(context.Background(), "parent")
	assert.NotContains(t, buf.String(), "platform=android")

	buf.Reset()
	child.Info(context.Background(), "child")
	assert.Contains(t, buf.String(), "platform=android")
}

func TestDiscardLogger(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() {
		logger.Warn(context.Background(), errors.New("boom"), "ignored")
		logger.Error(context.Background(), errors.New("boom"), "ignored")
	})
}

func TestPerfLogger(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, "text")
	op := logger.StartOperation("autolink")
	op.End(context.Background())

	assert.Contains(t, buf.String(), "operation=autolink")
	assert.Contains(t, buf.String(), "duration_ms=")
}
