package parties

import (
	"net/url"

	"github.com/JaimeStill/reception-registry/pkg/query"
	"github.com/JaimeStill/reception-registry/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "parties", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("party_type", "Type").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

func scanParty(s repository.Scanner) (Party, error) {
	var p Party
	var t string
	if err := s.Scan(&p.ID, &p.Name, &t, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return p, err
	}
	pt, err := ParseType(t)
	if err != nil {
		return p, err
	}
	p.Type = pt
	return p, nil
}

func scanPosition(s repository.Scanner) (Position, error) {
	var p Position
	err := s.Scan(&p.ID, &p.Name, &p.CreatedAt)
	return p, err
}

// Filters contains optional filtering criteria for party queries.
type Filters struct {
	Name *string
	Type *Type
}

// FiltersFromQuery extracts filter values from URL query parameters.
// An unrecognized type value is ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	if v := values.Get("type"); v != "" {
		if t, err := ParseType(v); err == nil {
			f.Type = &t
		}
	}
	return f
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereContains("Name", f.Name)
	if f.Type != nil {
		b.WhereEquals("Type", f.Type.String())
	}
	return b
}
