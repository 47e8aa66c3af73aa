// Package qrcodes derives a text fingerprint from a document, renders it as a
// QR code image, and keeps one artifact per document in storage.
package qrcodes

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Snapshot is the document state encoded into the QR payload.
type Snapshot struct {
	ID           uuid.UUID
	TypeName     string
	Identifier   *string
	ReceivedAt   time.Time
	ExternalLink *string
}

// Source loads document snapshots and records artifact keys. The document
// store implements it.
type Source interface {
	Snapshot(ctx context.Context, id uuid.UUID) (Snapshot, error)
	SetArtifact(ctx context.Context, id uuid.UUID, key string) error
}
