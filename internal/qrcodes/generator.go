package qrcodes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/reception-registry/pkg/storage"
)

// Generator renders document QR codes into a fixed storage slot per document.
type Generator struct {
	source  Source
	store   storage.System
	scale   int
	logger  *slog.Logger
	metrics *Metrics
}

// New creates a Generator. metrics may be nil.
func New(source Source, store storage.System, cfg Config, logger *slog.Logger, metrics *Metrics) *Generator {
	return &Generator{
		source:  source,
		store:   store,
		scale:   cfg.Scale,
		logger:  logger.With("system", "qrcodes"),
		metrics: metrics,
	}
}

// Refresh rebuilds the artifact from the document's current state, replacing
// whatever occupies its slot, then records the slot key on the document.
// Lookup errors from the source pass through unwrapped. Rendering and
// storage failures wrap ErrArtifactWrite.
func (g *Generator) Refresh(ctx context.Context, id uuid.UUID) (key string, err error) {
	start := time.Now()
	defer func() { g.metrics.observeRefresh(start, err) }()

	snap, err := g.source.Snapshot(ctx, id)
	if err != nil {
		return "", err
	}

	png, err := Render(Fingerprint(snap), g.scale)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrArtifactWrite, err)
	}

	key = Key(id)

	exists, err := g.store.Validate(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: check %s: %v", ErrArtifactWrite, key, err)
	}
	if exists {
		if err := g.store.Delete(ctx, key); err != nil {
			return "", fmt.Errorf("%w: delete %s: %v", ErrArtifactWrite, key, err)
		}
	}

	if err := g.store.Store(ctx, key, png); err != nil {
		return "", fmt.Errorf("%w: store %s: %v", ErrArtifactWrite, key, err)
	}

	if err := g.source.SetArtifact(ctx, id, key); err != nil {
		return "", fmt.Errorf("%w: record %s: %v", ErrArtifactWrite, key, err)
	}

	g.logger.Info("qr artifact refreshed", "document_id", id, "key", key, "bytes", len(png))
	return key, nil
}

// Data returns the stored PNG for a document. An empty slot is treated as a
// missed write and regenerated.
func (g *Generator) Data(ctx context.Context, id uuid.UUID) ([]byte, error) {
	key := Key(id)

	data, err := g.store.Retrieve(ctx, key)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("retrieve %s: %w", key, err)
	}

	g.logger.Warn("qr artifact missing, regenerating", "document_id", id, "key", key)
	g.metrics.incRegenerated()

	if _, err := g.Refresh(ctx, id); err != nil {
		return nil, err
	}

	data, err = g.store.Retrieve(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", key, err)
	}
	return data, nil
}

// Remove deletes a document's artifact. Missing artifacts are not an error.
func (g *Generator) Remove(ctx context.Context, id uuid.UUID) error {
	key := Key(id)
	if err := g.store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: delete %s: %v", ErrArtifactWrite, key, err)
	}
	return nil
}
