package main

import (
	"fmt"

	"propertypulse/pkg/types"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func loadConfig() (*types.Config, error) {
	// Missing .env is fine in deployed environments.
	_ = godotenv.Load()

	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	if c.CookieHashKey == "" || c.CookieBlockKey == "" {
		return nil, fmt.Errorf("set COOKIE_HASH_KEY and COOKIE_BLOCK_KEY")
	}

	return c, nil
}
