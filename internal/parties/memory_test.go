package parties_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/JaimeStill/reception-registry/internal/parties"
	"github.com/JaimeStill/reception-registry/pkg/pagination"
)

type fixedRefs map[uuid.UUID]bool

func (f fixedRefs) GuardParty(_ context.Context, id uuid.UUID, fn func(bool) error) error {
	return fn(f[id])
}

var pageCfg = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

type MemorySuite struct {
	suite.Suite
	ctx  context.Context
	refs fixedRefs
	sys  *parties.Memory
}

func TestMemorySuite(t *testing.T) {
	suite.Run(t, new(MemorySuite))
}

func (s *MemorySuite) SetupTest() {
	s.ctx = context.Background()
	s.refs = fixedRefs{}
	s.sys = parties.NewMemory(s.refs, pageCfg)
}

func (s *MemorySuite) create(name string, t parties.Type) *parties.Party {
	p, err := s.sys.Create(s.ctx, parties.CreateCommand{Name: name, Type: t})
	s.Require().NoError(err)
	return p
}

func (s *MemorySuite) TestCreateAndFind() {
	p := s.create("  Ministry of Works ", parties.Organization)

	found, err := s.sys.Find(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Ministry of Works", found.Name)
	s.Equal(parties.Organization, found.Type)

	_, err = s.sys.Find(s.ctx, uuid.New())
	s.ErrorIs(err, parties.ErrNotFound)
}

func (s *MemorySuite) TestCreate_Invalid() {
	_, err := s.sys.Create(s.ctx, parties.CreateCommand{Name: "", Type: parties.Individual})
	s.ErrorIs(err, parties.ErrInvalidParty)

	_, err = s.sys.Create(s.ctx, parties.CreateCommand{Name: "Ana"})
	s.ErrorIs(err, parties.ErrInvalidParty)
}

func (s *MemorySuite) TestUpdate_TypeLockedWhenReferenced() {
	p := s.create("Ana", parties.Individual)
	s.refs[p.ID] = true

	_, err := s.sys.Update(s.ctx, p.ID, parties.UpdateCommand{Name: "Ana", Type: parties.Organization})
	s.ErrorIs(err, parties.ErrTypeLocked)

	renamed, err := s.sys.Update(s.ctx, p.ID, parties.UpdateCommand{Name: "Ana Ruiz", Type: parties.Individual})
	s.Require().NoError(err)
	s.Equal("Ana Ruiz", renamed.Name)
}

func (s *MemorySuite) TestUpdate_TypeChangesWhenUnreferenced() {
	p := s.create("Acme", parties.Individual)

	updated, err := s.sys.Update(s.ctx, p.ID, parties.UpdateCommand{Name: "Acme", Type: parties.Organization})
	s.Require().NoError(err)
	s.Equal(parties.Organization, updated.Type)
	s.False(updated.UpdatedAt.Before(p.UpdatedAt))
}

func (s *MemorySuite) TestUpdate_NotFound() {
	_, err := s.sys.Update(s.ctx, uuid.New(), parties.UpdateCommand{Name: "X", Type: parties.Individual})
	s.ErrorIs(err, parties.ErrNotFound)
}

func (s *MemorySuite) TestDelete() {
	p := s.create("Acme", parties.Organization)
	s.refs[p.ID] = true

	s.ErrorIs(s.sys.Delete(s.ctx, p.ID), parties.ErrReferenced)

	s.refs[p.ID] = false
	s.Require().NoError(s.sys.Delete(s.ctx, p.ID))
	s.Require().NoError(s.sys.Delete(s.ctx, p.ID))

	_, err := s.sys.Find(s.ctx, p.ID)
	s.ErrorIs(err, parties.ErrNotFound)
}

func (s *MemorySuite) TestList_Filters() {
	s.create("Acme Corp", parties.Organization)
	s.create("Beta Agency", parties.Organization)
	s.create("Ana Acme", parties.Individual)

	org := parties.Organization
	result, err := s.sys.List(s.ctx, pagination.PageRequest{}, parties.Filters{Type: &org})
	s.Require().NoError(err)
	s.Equal(2, result.Total)
	s.Equal("Acme Corp", result.Data[0].Name)

	name := "acme"
	result, err = s.sys.List(s.ctx, pagination.PageRequest{}, parties.Filters{Name: &name})
	s.Require().NoError(err)
	s.Equal(2, result.Total)

	result, err = s.sys.List(s.ctx, pagination.PageRequest{Page: 2, PageSize: 2}, parties.Filters{})
	s.Require().NoError(err)
	s.Equal(3, result.Total)
	s.Equal(2, result.TotalPages)
	s.Len(result.Data, 1)
}

func (s *MemorySuite) TestPositions() {
	analyst, err := s.sys.CreatePosition(s.ctx, parties.CreatePositionCommand{Name: "Analyst"})
	s.Require().NoError(err)

	_, err = s.sys.CreatePosition(s.ctx, parties.CreatePositionCommand{Name: "analyst"})
	s.ErrorIs(err, parties.ErrDuplicate)

	_, err = s.sys.CreatePosition(s.ctx, parties.CreatePositionCommand{Name: " "})
	s.ErrorIs(err, parties.ErrInvalidParty)

	_, err = s.sys.CreatePosition(s.ctx, parties.CreatePositionCommand{Name: "Director"})
	s.Require().NoError(err)

	found, err := s.sys.FindPosition(s.ctx, analyst.ID)
	s.Require().NoError(err)
	s.Equal("Analyst", found.Name)

	_, err = s.sys.FindPosition(s.ctx, uuid.New())
	s.ErrorIs(err, parties.ErrPositionNotFound)

	all, err := s.sys.ListPositions(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("Analyst", all[0].Name)
	s.Equal("Director", all[1].Name)
}

func TestFiltersFromQuery(t *testing.T) {
	f := parties.FiltersFromQuery(map[string][]string{"type": {"organization"}, "name": {"acme"}})
	require.NotNil(t, f.Type)
	assert.Equal(t, parties.Organization, *f.Type)
	require.NotNil(t, f.Name)
	assert.Equal(t, "acme", *f.Name)

	f = parties.FiltersFromQuery(map[string][]string{"type": {"robot"}})
	assert.Nil(t, f.Type)
}
