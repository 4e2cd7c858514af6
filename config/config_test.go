package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_PATH", "WEIGHTS_FILE", "LOG_LEVEL", "BATCH_CONCURRENCY", "SHUTDOWN_TIMEOUT", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "bonus.db", cfg.DBPath)
	assert.Empty(t, cfg.WeightsFile)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 8, cfg.BatchConcurrency)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Len(t, cfg.CORSOrigins, 2)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("WEIGHTS_FILE", "/etc/bonus/weights.yaml")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("BATCH_CONCURRENCY", "2")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "https://hr.example.com, https://finance.example.com,")

	cfg := Load()

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, "/etc/bonus/weights.yaml", cfg.WeightsFile)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 2, cfg.BatchConcurrency)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"https://hr.example.com", "https://finance.example.com"}, cfg.CORSOrigins)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	t.Setenv("LOG_LEVEL", "verbose")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestInitLoggerTo_WritesJSONAtLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	log := InitLoggerTo(&buf, slog.LevelWarn)

	log.Info("hidden")
	log.Warn("shown", "employee_id", "emp-1")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"employee_id":"emp-1"`)
}
