package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`
	DeleteDir string `yaml:"delete_dir"`

	// GapHours is the symmetric time window, in hours, that decides how
	// far outside a set's span an item may fall and still be admitted.
	// Fixed at set creation.
	GapHours int `yaml:"gap_hours"`

	SetsShown    int `yaml:"sets_shown"`    // sets listed on the main view
	SummaryItems int `yaml:"summary_items"` // items per top-tail preview
	ItemsPerPage int `yaml:"items_per_page"`
	MaxItems     int `yaml:"max_items"` // hard cap for a single page

	// DryRun makes every move compute its destination without touching
	// the filesystem.
	DryRun bool `yaml:"dry_run"`

	// KeepSuggestions and KeepLocations control what survives a clear.
	KeepSuggestions bool `yaml:"keep_suggestions"`
	KeepLocations   bool `yaml:"keep_locations"`

	Database DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// Gap returns the configured gap as a duration.
func (c *Config) Gap() time.Duration {
	return time.Duration(c.GapHours) * time.Hour
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envBool reads an environment variable as a boolean, keeping the default
// when unset or unparsable.
func envBool(key string, defaultVal bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return defaultVal
}

// envString reads an environment variable, keeping the default when unset.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// Load builds the configuration from defaults, an optional YAML file named
// by MEDIASORT_CONFIG, and environment variable overrides, in that order.
func Load() (*Config, error) {
	cfg := &Config{
		InputDir:        "/input",
		OutputDir:       "/output",
		DeleteDir:       "/delete",
		GapHours:        2,
		SetsShown:       3,
		SummaryItems:    6,
		ItemsPerPage:    20,
		MaxItems:        200,
		DryRun:          true,
		KeepSuggestions: true,
		KeepLocations:   true,
		Database: DatabaseConfig{
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
	}

	if path := os.Getenv("MEDIASORT_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.InputDir = envString("INPUT_DIR", cfg.InputDir)
	cfg.OutputDir = envString("OUTPUT_DIR", cfg.OutputDir)
	cfg.DeleteDir = envString("DELETE_DIR", cfg.DeleteDir)
	cfg.GapHours = envInt("SET_GAP_HOURS", cfg.GapHours)
	cfg.SetsShown = envInt("SETS_SHOWN", cfg.SetsShown)
	cfg.SummaryItems = envInt("SUMMARY_ITEMS", cfg.SummaryItems)
	cfg.ItemsPerPage = envInt("ITEMS_PER_PAGE", cfg.ItemsPerPage)
	cfg.MaxItems = envInt("MAX_ITEMS", cfg.MaxItems)
	cfg.DryRun = envBool("DRY_RUN", cfg.DryRun)
	cfg.KeepSuggestions = envBool("KEEP_SUGGESTIONS", cfg.KeepSuggestions)
	cfg.KeepLocations = envBool("KEEP_LOCATIONS", cfg.KeepLocations)
	cfg.Database.URL = envString("DATABASE_URL", cfg.Database.URL)
	cfg.Database.MaxOpenConns = envInt("DATABASE_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = envInt("DATABASE_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)

	return cfg, nil
}
