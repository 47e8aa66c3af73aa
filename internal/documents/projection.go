package documents

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/reception-registry/internal/bindings"
	"github.com/JaimeStill/reception-registry/internal/qrcodes"
	"github.com/JaimeStill/reception-registry/pkg/query"
	"github.com/JaimeStill/reception-registry/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "document_records", "d").
	Project("id", "ID").
	Project("type_id", "TypeID").
	Project("type_name", "TypeName").
	Project("identifier", "Identifier").
	Project("reference", "Reference").
	Project("observations", "Observations").
	Project("received_at", "ReceivedAt").
	Project("external_link", "ExternalLink").
	Project("qr_artifact", "QRArtifact").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "ReceivedAt", Descending: true}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID, &d.TypeID, &d.TypeName, &d.Identifier, &d.Reference, &d.Observations,
		&d.ReceivedAt, &d.ExternalLink, &d.QRArtifact, &d.CreatedAt, &d.UpdatedAt,
	)
	d.ReceivedAt = d.ReceivedAt.UTC()
	return d, err
}

func scanSnapshot(s repository.Scanner) (qrcodes.Snapshot, error) {
	var snap qrcodes.Snapshot
	err := s.Scan(&snap.ID, &snap.TypeName, &snap.Identifier, &snap.ReceivedAt, &snap.ExternalLink)
	return snap, err
}

func scanType(s repository.Scanner) (DocumentType, error) {
	var t DocumentType
	err := s.Scan(&t.ID, &t.Name, &t.Acronym)
	return t, err
}

func scanBinding(s repository.Scanner) (bindings.Binding, error) {
	var (
		b          bindings.Binding
		role       string
		position   uuid.NullUUID
		supervisor uuid.NullUUID
	)
	if err := s.Scan(&b.ID, &b.DocumentID, &b.PartyID, &b.PartyName, &role, &position, &supervisor, &b.CreatedAt); err != nil {
		return b, err
	}

	r, err := bindings.ParseRole(role)
	if err != nil {
		return b, err
	}
	b.Role = r

	if position.Valid {
		b.PositionID = &position.UUID
	}
	if supervisor.Valid {
		b.SupervisingOrganizationID = &supervisor.UUID
	}
	return b, nil
}

// Filters contains optional filtering criteria for document queries.
// ReceivedFrom and ReceivedTo are inclusive bounds.
type Filters struct {
	Identifier   *string
	Reference    *string
	TypeID       *uuid.UUID
	ReceivedFrom *time.Time
	ReceivedTo   *time.Time
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Dates accept RFC 3339 or YYYY-MM-DD. A date-only received_to covers the
// whole day. Unparseable values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("identifier"); v != "" {
		f.Identifier = &v
	}
	if v := values.Get("reference"); v != "" {
		f.Reference = &v
	}
	if v := values.Get("type_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.TypeID = &id
		}
	}
	if t, _, ok := parseTime(values.Get("received_from")); ok {
		f.ReceivedFrom = &t
	}
	if t, dateOnly, ok := parseTime(values.Get("received_to")); ok {
		if dateOnly {
			t = t.Add(24*time.Hour - time.Microsecond)
		}
		f.ReceivedTo = &t
	}

	return f
}

func parseTime(v string) (time.Time, bool, bool) {
	if v == "" {
		return time.Time{}, false, false
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), false, true
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, true, true
	}
	return time.Time{}, false, false
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereContains("Identifier", f.Identifier)
	b.WhereContains("Reference", f.Reference)
	if f.TypeID != nil {
		b.WhereEquals("TypeID", *f.TypeID)
	}
	if f.ReceivedFrom != nil {
		b.WhereCompare("ReceivedAt", ">=", *f.ReceivedFrom)
	}
	if f.ReceivedTo != nil {
		b.WhereCompare("ReceivedAt", "<=", *f.ReceivedTo)
	}
	return b
}

// Match reports whether d satisfies every set filter.
func (f Filters) Match(d Document) bool {
	if f.Identifier != nil && (d.Identifier == nil || !containsFold(*d.Identifier, *f.Identifier)) {
		return false
	}
	if f.Reference != nil && !containsFold(d.Reference, *f.Reference) {
		return false
	}
	if f.TypeID != nil && d.TypeID != *f.TypeID {
		return false
	}
	if f.ReceivedFrom != nil && d.ReceivedAt.Before(*f.ReceivedFrom) {
		return false
	}
	if f.ReceivedTo != nil && d.ReceivedAt.After(*f.ReceivedTo) {
		return false
	}
	return true
}
