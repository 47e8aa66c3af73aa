package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/reception-registry/internal/bindings"
	"github.com/JaimeStill/reception-registry/internal/parties"
	"github.com/JaimeStill/reception-registry/internal/qrcodes"
	"github.com/JaimeStill/reception-registry/pkg/pagination"
)

// PartyTypes reads a party's type as seen by an in-progress binding write.
// The party cannot change type until the write finishes.
type PartyTypes func(ctx context.Context, id uuid.UUID) (parties.Type, error)

// BindingCheck validates a binding inside the write that persists it.
// Returning an error aborts the write.
type BindingCheck func(ctx context.Context, types PartyTypes) error

// Store persists documents, their types and their bindings. Every mutation
// of a document's fields or bindings advances updated_at to
// max(now, previous+1µs). SetArtifact only records the artifact key and
// leaves updated_at alone. Deleting a document deletes its bindings.
//
// InsertBinding runs check against the party and supervisor types read
// under the write's lock and stores nothing when check fails.
type Store interface {
	qrcodes.Source

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error)
	Create(ctx context.Context, f Fields) (*Document, error)
	Update(ctx context.Context, id uuid.UUID, f Fields) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error

	FindType(ctx context.Context, id uuid.UUID) (*DocumentType, error)
	CreateType(ctx context.Context, cmd CreateTypeCommand) (*DocumentType, error)
	ListTypes(ctx context.Context) ([]DocumentType, error)

	InsertBinding(ctx context.Context, b bindings.Binding, check BindingCheck) (*bindings.Binding, error)
	DeleteBinding(ctx context.Context, documentID, bindingID uuid.UUID) error
	Bindings(ctx context.Context, documentID uuid.UUID, role *bindings.Role) ([]bindings.Binding, error)
}
