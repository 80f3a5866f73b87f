package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvConfig    = "CITY_SCRAPERS_CONFIG"
	EnvLogLevel  = "CITY_SCRAPERS_LOG_LEVEL"
	EnvUserAgent = "CITY_SCRAPERS_USER_AGENT"
	EnvRate      = "CITY_SCRAPERS_RATE"
)

// Settings are process-wide options read from the environment
type Settings struct {
	ConfigPath string
	LogLevel   string
	UserAgent  string
	Rate       float64 // requests per second, 0 disables throttling
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		LogLevel:  "info",
		UserAgent: "city-scrapers/1.0 (github.com/pfrederiksen/city-scrapers)",
		Rate:      1,
	}
}

// LoadEnv loads .env files (missing files are ignored) and then reads the
// CITY_SCRAPERS_* variables on top of DefaultSettings.
func LoadEnv(files ...string) (Settings, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Settings{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	s := DefaultSettings()
	if v := os.Getenv(EnvConfig); v != "" {
		s.ConfigPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv(EnvUserAgent); v != "" {
		s.UserAgent = v
	}
	if v := os.Getenv(EnvRate); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate < 0 {
			return Settings{}, fmt.Errorf("invalid %s: %q", EnvRate, v)
		}
		s.Rate = rate
	}
	return s, nil
}
