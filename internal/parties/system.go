// Package parties maintains the registry of parties that send and receive
// documents, along with the positions individuals hold.
package parties

import (
	"context"

	"github.com/JaimeStill/reception-registry/pkg/pagination"
	"github.com/google/uuid"
)

// System defines the party registry.
type System interface {
	// Find returns ErrNotFound if the party does not exist.
	Find(ctx context.Context, id uuid.UUID) (*Party, error)

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Party], error)

	Create(ctx context.Context, cmd CreateCommand) (*Party, error)

	// Update returns ErrTypeLocked when the type changes on a party that a
	// binding references, either directly or as supervising organization.
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Party, error)

	// Delete is idempotent. Returns ErrReferenced while bindings still point
	// at the party.
	Delete(ctx context.Context, id uuid.UUID) error

	FindPosition(ctx context.Context, id uuid.UUID) (*Position, error)
	CreatePosition(ctx context.Context, cmd CreatePositionCommand) (*Position, error)
	ListPositions(ctx context.Context) ([]Position, error)
}
