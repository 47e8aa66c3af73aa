package qrcodes

import (
	"fmt"
	"os"
	"strconv"
)

// Env maps environment variable names for QR configuration.
type Env struct {
	Scale string
}

// Config controls QR rendering.
type Config struct {
	// Scale is the pixel width of one QR module.
	// Default: 10
	Scale int `toml:"scale"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	if c.Scale == 0 {
		c.Scale = 10
	}
	if env != nil && env.Scale != "" {
		if v := os.Getenv(env.Scale); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid scale %q: %w", v, err)
			}
			c.Scale = n
		}
	}
	if c.Scale < 1 || c.Scale > 64 {
		return fmt.Errorf("scale must be between 1 and 64, got %d", c.Scale)
	}
	return nil
}

// Merge applies non-zero values from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Scale != 0 {
		c.Scale = overlay.Scale
	}
}
