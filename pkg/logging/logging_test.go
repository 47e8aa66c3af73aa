package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/reception-registry/pkg/logging"
)

func TestLevel_ToSlogLevel(t *testing.T) {
	tests := []struct {
		level    logging.Level
		expected slog.Level
	}{
		{logging.LevelDebug, slog.LevelDebug},
		{logging.LevelInfo, slog.LevelInfo},
		{logging.LevelWarn, slog.LevelWarn},
		{logging.LevelError, slog.LevelError},
		{logging.Level("unknown"), slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.ToSlogLevel())
		})
	}
}

func TestConfig_Finalize(t *testing.T) {
	t.Setenv("TEST_LOG_FORMAT", "json")

	cfg := &logging.Config{}
	require.NoError(t, cfg.Finalize(&logging.Env{Format: "TEST_LOG_FORMAT"}))

	assert.Equal(t, logging.LevelInfo, cfg.Level)
	assert.Equal(t, logging.FormatJSON, cfg.Format)
	assert.Equal(t, "reception-registry", cfg.Service)

	bad := &logging.Config{Level: "loud"}
	assert.Error(t, bad.Finalize(nil))
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := &logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON, Service: "registry"}

	logger := logging.NewWithWriter(cfg, &buf)
	logger.Debug("hidden")
	logger.Info("document created", "id", "abc")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "document created", record["msg"])
	assert.Equal(t, "registry", record["service"])
	assert.Equal(t, "abc", record["id"])
}
