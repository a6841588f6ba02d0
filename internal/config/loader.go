package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ROVE_CONFIG is set
//  3. env (prefix ROVE_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("ROVE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ROVE_ADDR, ROVE_SEEN_WINDOW, ...
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ROVE_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "rove_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxRecommendations < 1:
		return fmt.Errorf("%w: max_recommendations must be positive", ErrInvalidConfig)
	case c.CategoryCapFrac <= 0 || c.CategoryCapFrac > 1:
		return fmt.Errorf("%w: category_cap_frac must be in (0, 1]", ErrInvalidConfig)
	case c.SponsoredCapFrac <= 0 || c.SponsoredCapFrac > 1:
		return fmt.Errorf("%w: sponsored_cap_frac must be in (0, 1]", ErrInvalidConfig)
	case c.HorizonDays < 1:
		return fmt.Errorf("%w: horizon_days must be positive", ErrInvalidConfig)
	case c.TravelBufferMin < 0:
		return fmt.Errorf("%w: travel_buffer_min must not be negative", ErrInvalidConfig)
	}
	return nil
}
