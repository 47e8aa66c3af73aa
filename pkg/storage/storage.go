// Package storage provides blob storage for generated artifacts.
// It defines a System interface with filesystem and S3 implementations
// selected by configuration.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/reception-registry/pkg/lifecycle"
)

// Storage errors returned by System implementations.
var (
	// ErrNotFound indicates the requested key does not exist in storage.
	ErrNotFound = errors.New("storage: key not found")

	// ErrPermissionDenied indicates insufficient permissions to access the key.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey indicates the key is malformed or contains invalid characters.
	// This includes empty keys and path traversal attempts.
	ErrInvalidKey = errors.New("storage: invalid key")

	// ErrTooLarge indicates the blob exceeds the configured size limit.
	ErrTooLarge = errors.New("storage: blob exceeds max artifact size")
)

// System defines blob storage operations keyed by slash-separated paths.
type System interface {
	// Store saves data at the specified key, overwriting existing contents.
	// Returns ErrInvalidKey if the key is empty or contains path traversal.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve returns the data stored at the specified key.
	// Returns ErrNotFound if the key does not exist.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes the data at the specified key.
	// Returns nil if the key does not exist (idempotent).
	Delete(ctx context.Context, key string) error

	// Validate reports whether a key exists.
	// Returns (false, nil) if the key does not exist and (false, error)
	// for permission or backend errors.
	Validate(ctx context.Context, key string) (bool, error)

	// Start registers lifecycle hooks with the coordinator.
	Start(lc *lifecycle.Coordinator) error
}

// New creates the storage system selected by cfg.Backend.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	switch cfg.Backend {
	case BackendFilesystem, "":
		return NewFilesystem(cfg, logger)
	case BackendS3:
		return NewS3(context.Background(), cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

func checkSize(data []byte, limit int64) error {
	if limit > 0 && int64(len(data)) > limit {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	return nil
}
