package documents

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiltersFromQuery(t *testing.T) {
	typeID := uuid.New()
	values := url.Values{
		"identifier":    {"M-0"},
		"type_id":       {typeID.String()},
		"received_from": {"2024-01-01"},
		"received_to":   {"2024-01-31"},
	}

	f := FiltersFromQuery(values)

	require.NotNil(t, f.Identifier)
	assert.Equal(t, "M-0", *f.Identifier)
	assert.Nil(t, f.Reference)
	assert.Equal(t, typeID, *f.TypeID)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.ReceivedFrom)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999000, time.UTC), *f.ReceivedTo)
}

func TestFiltersFromQuery_IgnoresGarbage(t *testing.T) {
	f := FiltersFromQuery(url.Values{
		"type_id":       {"nope"},
		"received_from": {"yesterday"},
	})

	assert.Nil(t, f.TypeID)
	assert.Nil(t, f.ReceivedFrom)
}

func TestFilters_Match(t *testing.T) {
	at := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	id := "M-001"
	doc := Document{TypeID: uuid.New(), Identifier: &id, Reference: "Budget request", ReceivedAt: at}

	before := at.Add(-time.Hour)
	after := at.Add(time.Hour)
	sub := "budget"
	other := "X-"

	tests := []struct {
		name    string
		filters Filters
		want    bool
	}{
		{"empty", Filters{}, true},
		{"reference case-insensitive", Filters{Reference: &sub}, true},
		{"identifier mismatch", Filters{Identifier: &other}, false},
		{"inside range", Filters{ReceivedFrom: &before, ReceivedTo: &after}, true},
		{"bounds inclusive", Filters{ReceivedFrom: &at, ReceivedTo: &at}, true},
		{"after range", Filters{ReceivedTo: &before}, false},
		{"other type", Filters{TypeID: ptrUUID(uuid.New())}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filters.Match(doc))
		})
	}
}

func TestFields_Normalize(t *testing.T) {
	blank := "   "
	link := " https://example.com/doc "
	local := time.FixedZone("UTC-5", -5*3600)

	f, err := Fields{
		TypeID:       uuid.New(),
		Identifier:   &blank,
		Reference:    " Budget ",
		ReceivedAt:   time.Date(2024, 1, 10, 4, 0, 0, 0, local),
		ExternalLink: &link,
	}.normalize()
	require.NoError(t, err)

	assert.Nil(t, f.Identifier)
	assert.Equal(t, "Budget", f.Reference)
	assert.Equal(t, "https://example.com/doc", *f.ExternalLink)
	assert.Equal(t, time.UTC, f.ReceivedAt.Location())
	assert.Equal(t, 9, f.ReceivedAt.Hour())
}

func TestFields_NormalizeRejects(t *testing.T) {
	valid := Fields{TypeID: uuid.New(), Reference: "r", ReceivedAt: time.Now()}

	tests := []struct {
		name   string
		mutate func(*Fields)
	}{
		{"missing type", func(f *Fields) { f.TypeID = uuid.Nil }},
		{"missing received_at", func(f *Fields) { f.ReceivedAt = time.Time{} }},
		{"identifier too long", func(f *Fields) { s := strings.Repeat("x", maxIdentifierLength+1); f.Identifier = &s }},
		{"relative link", func(f *Fields) { s := "/docs/1"; f.ExternalLink = &s }},
		{"link without host", func(f *Fields) { s := "https://"; f.ExternalLink = &s }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			_, err := f.normalize()
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func ptrUUID(id uuid.UUID) *uuid.UUID { return &id }
