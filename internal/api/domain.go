package api

import (
	"github.com/JaimeStill/reception-registry/internal/documents"
	"github.com/JaimeStill/reception-registry/internal/parties"
	"github.com/JaimeStill/reception-registry/internal/qrcodes"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Parties   parties.System
	Documents documents.System
}

// NewDomain creates all domain systems from the API runtime. The QR
// generator reads snapshots from the same store the document system writes.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	partiesSys := parties.New(db, runtime.Logger, runtime.Pagination)
	store := documents.NewPostgres(db, runtime.Logger, runtime.Pagination)

	generator := qrcodes.New(
		store,
		runtime.Storage,
		runtime.QR,
		runtime.Logger,
		qrcodes.NewMetrics(runtime.Metrics),
	)

	documentsSys := documents.New(
		store,
		partiesSys,
		generator,
		runtime.Logger,
		documents.NewMetrics(runtime.Metrics),
	)

	return &Domain{
		Parties:   partiesSys,
		Documents: documentsSys,
	}
}
