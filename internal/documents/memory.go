package documents

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/reception-registry/internal/bindings"
	"github.com/JaimeStill/reception-registry/internal/parties"
	"github.com/JaimeStill/reception-registry/internal/qrcodes"
	"github.com/JaimeStill/reception-registry/pkg/pagination"
)

// PartyReader resolves parties for binding checks.
type PartyReader interface {
	Find(ctx context.Context, id uuid.UUID) (*parties.Party, error)
}

// Memory is an in-process Store. It also guards party changes for an
// in-memory party registry, so the registry must be read through SetParties
// for binding checks.
type Memory struct {
	mu         sync.RWMutex
	parties    PartyReader
	docs       map[uuid.UUID]Document
	types      map[uuid.UUID]DocumentType
	bindings   map[uuid.UUID][]bindings.Binding
	now        func() time.Time
	pagination pagination.Config
}

// NewMemory creates an empty in-memory Store.
func NewMemory(pagination pagination.Config) *Memory {
	return &Memory{
		docs:       make(map[uuid.UUID]Document),
		types:      make(map[uuid.UUID]DocumentType),
		bindings:   make(map[uuid.UUID][]bindings.Binding),
		now:        time.Now,
		pagination: pagination,
	}
}

// SetParties sets the registry read when a binding is checked inside
// InsertBinding.
func (m *Memory) SetParties(p PartyReader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parties = p
}

// SetClock replaces the time source used for timestamps.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Memory) Find(_ context.Context, id uuid.UUID) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (m *Memory) List(_ context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error) {
	page.Normalize(m.pagination)

	m.mu.RLock()
	matched := make([]Document, 0, len(m.docs))
	for _, d := range m.docs {
		if !filters.Match(d) || !matchSearch(d, page.Search) {
			continue
		}
		matched = append(matched, d)
	}
	m.mu.RUnlock()

	slices.SortFunc(matched, func(a, b Document) int {
		if c := b.ReceivedAt.Compare(a.ReceivedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	total := len(matched)
	start := min(page.Offset(), total)
	end := min(start+page.PageSize, total)

	result := pagination.NewPageResult(matched[start:end], total, page.Page, page.PageSize)
	return &result, nil
}

func (m *Memory) Create(_ context.Context, f Fields) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.types[f.TypeID]
	if !ok {
		return nil, ErrTypeNotFound
	}

	now := m.stamp(time.Time{})
	d := Document{
		ID:        uuid.New(),
		TypeName:  t.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.apply(f)

	m.docs[d.ID] = d
	return &d, nil
}

func (m *Memory) Update(_ context.Context, id uuid.UUID, f Fields) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	t, ok := m.types[f.TypeID]
	if !ok {
		return nil, ErrTypeNotFound
	}

	d.apply(f)
	d.TypeName = t.Name
	d.UpdatedAt = m.stamp(d.UpdatedAt)

	m.docs[id] = d
	return &d, nil
}

func (m *Memory) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	delete(m.bindings, id)
	return nil
}

func (m *Memory) Snapshot(_ context.Context, id uuid.UUID) (qrcodes.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.docs[id]
	if !ok {
		return qrcodes.Snapshot{}, ErrNotFound
	}
	return qrcodes.Snapshot{
		ID:           d.ID,
		TypeName:     d.TypeName,
		Identifier:   d.Identifier,
		ReceivedAt:   d.ReceivedAt,
		ExternalLink: d.ExternalLink,
	}, nil
}

func (m *Memory) SetArtifact(_ context.Context, id uuid.UUID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	d.QRArtifact = &key
	m.docs[id] = d
	return nil
}

func (m *Memory) FindType(_ context.Context, id uuid.UUID) (*DocumentType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.types[id]
	if !ok {
		return nil, ErrTypeNotFound
	}
	return &t, nil
}

func (m *Memory) CreateType(_ context.Context, cmd CreateTypeCommand) (*DocumentType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.types {
		if t.Name == cmd.Name {
			return nil, ErrDuplicate
		}
	}

	t := DocumentType{ID: uuid.New(), Name: cmd.Name, Acronym: cmd.Acronym}
	m.types[t.ID] = t
	return &t, nil
}

func (m *Memory) ListTypes(_ context.Context) ([]DocumentType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	types := make([]DocumentType, 0, len(m.types))
	for _, t := range m.types {
		types = append(types, t)
	}
	slices.SortFunc(types, func(a, b DocumentType) int { return cmp.Compare(a.Name, b.Name) })
	return types, nil
}

func (m *Memory) InsertBinding(ctx context.Context, b bindings.Binding, check BindingCheck) (*bindings.Binding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.docs[b.DocumentID]
	if !ok {
		return nil, ErrNotFound
	}

	if m.parties == nil {
		return nil, errors.New("binding check: no party registry set")
	}
	types := func(ctx context.Context, id uuid.UUID) (parties.Type, error) {
		p, err := m.parties.Find(ctx, id)
		if err != nil {
			return 0, err
		}
		return p.Type, nil
	}
	if err := check(ctx, types); err != nil {
		return nil, err
	}

	b.ID = uuid.New()
	b.CreatedAt = m.stamp(time.Time{})
	m.bindings[b.DocumentID] = append(m.bindings[b.DocumentID], b)

	d.UpdatedAt = m.stamp(d.UpdatedAt)
	m.docs[d.ID] = d

	return &b, nil
}

func (m *Memory) DeleteBinding(_ context.Context, documentID, bindingID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.bindings[documentID]
	i := slices.IndexFunc(list, func(b bindings.Binding) bool { return b.ID == bindingID })
	if i < 0 {
		return ErrBindingNotFound
	}
	m.bindings[documentID] = slices.Delete(list, i, i+1)

	d := m.docs[documentID]
	d.UpdatedAt = m.stamp(d.UpdatedAt)
	m.docs[documentID] = d
	return nil
}

func (m *Memory) Bindings(_ context.Context, documentID uuid.UUID, role *bindings.Role) ([]bindings.Binding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]bindings.Binding, 0, len(m.bindings[documentID]))
	for _, b := range m.bindings[documentID] {
		if role != nil && b.Role != *role {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// GuardParty calls fn with whether any binding points at the party, either as
// the bound party or as supervising organization. Bindings cannot be inserted
// while fn runs.
func (m *Memory) GuardParty(_ context.Context, id uuid.UUID, fn func(referenced bool) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fn(m.referenced(id))
}

func (m *Memory) referenced(id uuid.UUID) bool {
	for _, list := range m.bindings {
		for _, b := range list {
			if b.PartyID == id {
				return true
			}
			if b.SupervisingOrganizationID != nil && *b.SupervisingOrganizationID == id {
				return true
			}
		}
	}
	return false
}

// stamp returns the current time at microsecond precision, advanced past
// prev when the clock has not moved.
func (m *Memory) stamp(prev time.Time) time.Time {
	now := m.now().UTC().Truncate(time.Microsecond)
	if floor := prev.Add(time.Microsecond); !prev.IsZero() && now.Before(floor) {
		return floor
	}
	return now
}

func (d *Document) apply(f Fields) {
	d.TypeID = f.TypeID
	d.Identifier = f.Identifier
	d.Reference = f.Reference
	d.Observations = f.Observations
	d.ReceivedAt = f.ReceivedAt
	d.ExternalLink = f.ExternalLink
}

func matchSearch(d Document, search *string) bool {
	if search == nil || *search == "" {
		return true
	}
	if d.Identifier != nil && containsFold(*d.Identifier, *search) {
		return true
	}
	return containsFold(d.Reference, *search) || containsFold(d.TypeName, *search)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

var _ Store = (*Memory)(nil)

