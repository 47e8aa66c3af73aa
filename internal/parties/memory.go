package parties

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/JaimeStill/reception-registry/pkg/pagination"
	"github.com/google/uuid"
)

// ReferenceGuard owns the bindings that point at parties. GuardParty calls fn
// with whether any binding references id, and no binding naming id can be
// written until fn returns.
type ReferenceGuard interface {
	GuardParty(ctx context.Context, id uuid.UUID, fn func(referenced bool) error) error
}

// Memory is an in-process party registry. It backs tests and local runs
// without a database.
type Memory struct {
	mu         sync.RWMutex
	parties    map[uuid.UUID]Party
	positions  map[uuid.UUID]Position
	refs       ReferenceGuard
	pagination pagination.Config
}

// NewMemory creates an empty registry. A nil refs treats every party as
// unreferenced.
func NewMemory(refs ReferenceGuard, pagination pagination.Config) *Memory {
	return &Memory{
		parties:    make(map[uuid.UUID]Party),
		positions:  make(map[uuid.UUID]Position),
		refs:       refs,
		pagination: pagination,
	}
}

// SetReferenceGuard replaces the guard consulted by Update and Delete.
func (m *Memory) SetReferenceGuard(refs ReferenceGuard) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs = refs
}

func (m *Memory) Find(_ context.Context, id uuid.UUID) (*Party, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.parties[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *Memory) List(_ context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Party], error) {
	page.Normalize(m.pagination)

	m.mu.RLock()
	matched := make([]Party, 0, len(m.parties))
	for _, p := range m.parties {
		if filters.Name != nil && !containsFold(p.Name, *filters.Name) {
			continue
		}
		if page.Search != nil && !containsFold(p.Name, *page.Search) {
			continue
		}
		if filters.Type != nil && p.Type != *filters.Type {
			continue
		}
		matched = append(matched, p)
	}
	m.mu.RUnlock()

	slices.SortFunc(matched, func(a, b Party) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
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

func (m *Memory) Create(_ context.Context, cmd CreateCommand) (*Party, error) {
	if err := validateCommand(cmd.Name, cmd.Type); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := Party{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(cmd.Name),
		Type:      cmd.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.parties[p.ID] = p
	m.mu.Unlock()

	return &p, nil
}

func (m *Memory) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Party, error) {
	if err := validateCommand(cmd.Name, cmd.Type); err != nil {
		return nil, err
	}

	var out Party
	err := m.guard(ctx, id, func(referenced bool) error {
		m.mu.Lock()
		defer m.mu.Unlock()

		p, ok := m.parties[id]
		if !ok {
			return ErrNotFound
		}
		if p.Type != cmd.Type && referenced {
			return ErrTypeLocked
		}

		p.Name = strings.TrimSpace(cmd.Name)
		p.Type = cmd.Type
		p.UpdatedAt = time.Now().UTC()
		m.parties[id] = p
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (m *Memory) Delete(ctx context.Context, id uuid.UUID) error {
	return m.guard(ctx, id, func(referenced bool) error {
		m.mu.Lock()
		defer m.mu.Unlock()

		if _, ok := m.parties[id]; !ok {
			return nil
		}
		if referenced {
			return fmt.Errorf("%w: party %s", ErrReferenced, id)
		}

		delete(m.parties, id)
		return nil
	})
}

func (m *Memory) FindPosition(_ context.Context, id uuid.UUID) (*Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.positions[id]
	if !ok {
		return nil, ErrPositionNotFound
	}
	return &p, nil
}

func (m *Memory) CreatePosition(_ context.Context, cmd CreatePositionCommand) (*Position, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: position name is required", ErrInvalidParty)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.positions {
		if strings.EqualFold(existing.Name, name) {
			return nil, ErrDuplicate
		}
	}

	p := Position{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	m.positions[p.ID] = p
	return &p, nil
}

func (m *Memory) ListPositions(_ context.Context) ([]Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]Position, 0, len(m.positions))
	for _, p := range m.positions {
		items = append(items, p)
	}
	slices.SortFunc(items, func(a, b Position) int { return cmp.Compare(a.Name, b.Name) })
	return items, nil
}

// guard runs fn under the reference guard. The registry lock is taken inside
// fn, after the guard's.
func (m *Memory) guard(ctx context.Context, id uuid.UUID, fn func(referenced bool) error) error {
	m.mu.RLock()
	refs := m.refs
	m.mu.RUnlock()

	if refs == nil {
		return fn(false)
	}
	return refs.GuardParty(ctx, id, fn)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
