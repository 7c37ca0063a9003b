package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the client, sourced from the
// environment with an optional .env file loaded first.
type Config struct {
	APIURL         string
	SessionFile    string
	LogFile        string
	LogLevel       string
	MetricsAddr    string
	RequestTimeout time.Duration
}

// Load reads configuration from the environment. Missing variables fall
// back to local-development defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		APIURL:         getenv("PM_API_URL", "http://localhost:8000"),
		SessionFile:    getenv("PM_SESSION_FILE", defaultSessionFile()),
		LogFile:        getenv("PM_LOG_FILE", ""),
		LogLevel:       getenv("PM_LOG_LEVEL", "info"),
		MetricsAddr:    getenv("PM_METRICS_ADDR", ""),
		RequestTimeout: getDuration("PM_REQUEST_TIMEOUT", 10*time.Second),
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pmcli", "session.json")
	}
	return filepath.Join(home, ".pmcli", "session.json")
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
