// Package config loads the process-wide domain.Config from the
// environment (§6) using caarlos0/env, the pack's struct-tag-driven
// environment loader.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/noor-rag/noor-core/internal/core/domain"
)

// Load parses domain.Config from the process environment, applying
// the envDefault tags for every field the caller does not set.
func Load() (domain.Config, error) {
	var cfg domain.Config
	if err := env.Parse(&cfg); err != nil {
		return domain.Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}
