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
//  2. file (YAML) if RADIAL_CONFIG is set
//  3. env (prefix RADIAL_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("RADIAL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: RADIAL_ADDR, RADIAL_STEP_DURATION_MS, ...
	// Map env keys like RADIAL_STEP_DURATION_MS -> step_duration_ms
	// (flat keys). Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("RADIAL_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "radial_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the engine cannot run with.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CanvasSize <= 0:
		return fmt.Errorf("%w: canvas_size must be positive", ErrInvalidConfig)
	case c.ChartRadius <= 0 || float64(c.CanvasSize) < 2*c.ChartRadius:
		return fmt.Errorf("%w: chart_radius must fit the canvas", ErrInvalidConfig)
	case c.BoundarySlices < 1:
		return fmt.Errorf("%w: boundary_slices must be at least 1", ErrInvalidConfig)
	case c.StepDurationMs <= 0:
		return fmt.Errorf("%w: step_duration_ms must be positive", ErrInvalidConfig)
	case c.VisibilityThreshold <= 0 || c.VisibilityThreshold > 1:
		return fmt.Errorf("%w: visibility_threshold must be in (0, 1]", ErrInvalidConfig)
	case c.GhostTrail < 0:
		return fmt.Errorf("%w: ghost_trail must not be negative", ErrInvalidConfig)
	}
	return nil
}
