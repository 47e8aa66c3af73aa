package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/reception-registry/internal/bindings"
	"github.com/JaimeStill/reception-registry/pkg/pagination"
)

// System defines document reception operations.
type System interface {
	// Create writes a document and then refreshes its QR artifact. A failed
	// refresh keeps the write and is reported in SaveResult.Warning.
	Create(ctx context.Context, cmd CreateCommand) (*SaveResult, error)

	// Update replaces a document's fields and then refreshes its QR artifact.
	// Returns ErrNotFound if the document does not exist.
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*SaveResult, error)

	// Find returns the document with its bindings and senders display string.
	Find(ctx context.Context, id uuid.UUID) (*Document, error)

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error)

	// Delete removes the document, its bindings and its QR artifact.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddBinding resolves the referenced party, position and supervising
	// organization, validates the candidate and only then writes it.
	AddBinding(ctx context.Context, documentID uuid.UUID, cmd BindingCommand) (*bindings.Binding, error)
	RemoveBinding(ctx context.Context, documentID, bindingID uuid.UUID) error
	Bindings(ctx context.Context, documentID uuid.UUID, role *bindings.Role) ([]bindings.Binding, error)

	CreateType(ctx context.Context, cmd CreateTypeCommand) (*DocumentType, error)
	ListTypes(ctx context.Context) ([]DocumentType, error)

	// RefreshArtifact rebuilds the QR artifact on demand. Unlike the refresh
	// that follows a save, failures are returned as errors.
	RefreshArtifact(ctx context.Context, id uuid.UUID) (*Document, error)

	// Artifact returns the QR image, regenerating it when the slot is empty.
	Artifact(ctx context.Context, id uuid.UUID) ([]byte, error)

	// Label returns a printable PDF holding the QR image.
	Label(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// Refresher runs the artifact phase that follows a document save.
type Refresher interface {
	Refresh(ctx context.Context, id uuid.UUID) (string, error)
	Remove(ctx context.Context, id uuid.UUID) error
	Data(ctx context.Context, id uuid.UUID) ([]byte, error)
	Label(ctx context.Context, id uuid.UUID) ([]byte, error)
}
