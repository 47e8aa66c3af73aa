package storage

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
)

// Backend identifies a storage implementation.
type Backend string

// Supported storage backends.
const (
	BackendFilesystem Backend = "filesystem"
	BackendS3         Backend = "s3"
)

// Config contains blob storage configuration.
type Config struct {
	// Backend selects the storage implementation.
	// Default: "filesystem"
	Backend Backend `toml:"backend"`

	// BasePath is the root directory for filesystem storage.
	// Default: ".data/blobs"
	BasePath string `toml:"base_path"`

	Bucket   string `toml:"bucket"`
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"`

	// MaxArtifactSize bounds a single stored blob, in human units ("2MB").
	MaxArtifactSize    string `toml:"max_artifact_size"`
	maxArtifactSizeVal int64
}

// Env maps environment variable names for storage configuration.
type Env struct {
	Backend         string
	BasePath        string
	Bucket          string
	Region          string
	Endpoint        string
	MaxArtifactSize string
}

// MaxArtifactSizeBytes returns the parsed artifact size limit.
// Only valid after Finalize.
func (c *Config) MaxArtifactSizeBytes() int64 {
	return c.maxArtifactSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.Bucket != "" {
		c.Bucket = overlay.Bucket
	}
	if overlay.Region != "" {
		c.Region = overlay.Region
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}

	if size, err := units.FromHumanSize(overlay.MaxArtifactSize); err == nil {
		c.MaxArtifactSize = overlay.MaxArtifactSize
		c.maxArtifactSizeVal = size
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFilesystem
	}
	if c.BasePath == "" {
		c.BasePath = ".data/blobs"
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.MaxArtifactSize == "" {
		c.MaxArtifactSize = "5MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Backend != "" {
		if v := os.Getenv(env.Backend); v != "" {
			c.Backend = Backend(v)
		}
	}
	if env.BasePath != "" {
		if v := os.Getenv(env.BasePath); v != "" {
			c.BasePath = v
		}
	}
	if env.Bucket != "" {
		if v := os.Getenv(env.Bucket); v != "" {
			c.Bucket = v
		}
	}
	if env.Region != "" {
		if v := os.Getenv(env.Region); v != "" {
			c.Region = v
		}
	}
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.MaxArtifactSize != "" {
		if v := os.Getenv(env.MaxArtifactSize); v != "" {
			c.MaxArtifactSize = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendFilesystem:
		if c.BasePath == "" {
			return fmt.Errorf("base_path required")
		}
	case BackendS3:
		if c.Bucket == "" {
			return fmt.Errorf("bucket required for s3 backend")
		}
	default:
		return fmt.Errorf("invalid backend: %s (must be filesystem or s3)", c.Backend)
	}

	size, err := units.FromHumanSize(c.MaxArtifactSize)
	if err != nil {
		return fmt.Errorf("invalid max_artifact_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_artifact_size must be positive")
	}
	c.maxArtifactSizeVal = size

	return nil
}
