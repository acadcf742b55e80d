package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config carries everything the toolkit needs to talk to the TalentLink
// backend and to run the local surfaces.
type Config struct {
	// BaseURL is the backend origin, without the /api prefix.
	BaseURL string
	// RequestTimeout bounds every API call.
	RequestTimeout time.Duration
	// StateDir holds the persisted token/user snapshot and cross-process
	// signal files.
	StateDir string
	// WebAddr is the listen address of the local web UI.
	WebAddr string
	// PageSize is the default listing page size.
	PageSize int
	// Debug enables pprof and verbose logging on the web UI.
	Debug bool
}

func Load() (*Config, error) {
	stateDir := os.Getenv("TALENTLINK_STATE_DIR")
	if stateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = os.TempDir()
		}
		stateDir = filepath.Join(base, "talentlink")
	}

	cfg := &Config{
		BaseURL:        getEnvOrDefault("TALENTLINK_API_URL", "http://localhost:8000"),
		RequestTimeout: getDurationOrDefault("TALENTLINK_TIMEOUT", 15*time.Second),
		StateDir:       stateDir,
		WebAddr:        getEnvOrDefault("TALENTLINK_WEB_ADDR", ":8091"),
		PageSize:       getIntOrDefault("TALENTLINK_PAGE_SIZE", 10),
		Debug:          os.Getenv("TALENTLINK_DEBUG") == "true",
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
