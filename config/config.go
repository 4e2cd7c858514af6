// Package config loads runtime settings from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server and CLI read at startup.
type Config struct {
	Port             int
	DBPath           string
	WeightsFile      string // empty -> built-in table
	LogLevel         slog.Level
	BatchConcurrency int
	ShutdownTimeout  time.Duration
	CORSOrigins      []string
}

// Load reads the environment, after loading a .env file when one exists.
func Load() *Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	return &Config{
		Port:             parseInt("PORT", 8080),
		DBPath:           getenv("DB_PATH", "bonus.db"),
		WeightsFile:      os.Getenv("WEIGHTS_FILE"),
		LogLevel:         parseLevel(getenv("LOG_LEVEL", "info")),
		BatchConcurrency: parseInt("BATCH_CONCURRENCY", 8),
		ShutdownTimeout:  parseDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		CORSOrigins:      parseList("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:8080"}),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseInt(env string, def int) int {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(env string, def time.Duration) time.Duration {
	if v := os.Getenv(env); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseList(env string, def []string) []string {
	v := os.Getenv(env)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
