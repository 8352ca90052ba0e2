package cmd

import (
	"errors"
	"fmt"

	"github.com/mediasort/mediasort/internal/config"
	"github.com/mediasort/mediasort/internal/library"
	"github.com/mediasort/mediasort/internal/store/postgres"
)

// openService loads the configuration, connects to PostgreSQL and builds
// the library service. The caller must Close the returned store.
func openService() (*config.Config, *library.Service, *postgres.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.Database.URL == "" {
		return nil, nil, nil, errors.New("DATABASE_URL environment variable is required")
	}

	st, err := postgres.Open(&cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
	}

	return cfg, library.New(st, cfg), st, nil
}
