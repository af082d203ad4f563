package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Service settings read from the environment (optionally seeded by a .env file).
type Config struct {
	Port     string
	DBDriver string
	// PostgreSQL URL for driver "pgx", file path for driver "sqlite".
	DatabaseURL string
	SeedPath    string
	// Use one radius for every stop instead of the per-mode table.
	UniformTransitRange bool
	// Zero disables periodic snapshot reloads.
	ReloadInterval time.Duration
}

// Return the value of key, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        Get("PORT", "8080"),
		DBDriver:    Get("DB_DRIVER", "sqlite"),
		DatabaseURL: Get("DATABASE_URL", "data/world.db"),
		SeedPath:    Get("SEED_PATH", "data/seeds/world.json"),
	}

	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "pgx" {
		return nil, fmt.Errorf("load config: DB_DRIVER must be sqlite or pgx, got %q", cfg.DBDriver)
	}

	uniform, err := strconv.ParseBool(Get("UNIFORM_TRANSIT_RANGE", "false"))
	if err != nil {
		return nil, fmt.Errorf("load config: UNIFORM_TRANSIT_RANGE: %w", err)
	}
	cfg.UniformTransitRange = uniform

	interval, err := time.ParseDuration(Get("RELOAD_INTERVAL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("load config: RELOAD_INTERVAL: %w", err)
	}
	if interval < 0 {
		return nil, fmt.Errorf("load config: RELOAD_INTERVAL must not be negative, got %s", interval)
	}
	cfg.ReloadInterval = interval

	return cfg, nil
}
