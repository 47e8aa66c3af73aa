package documents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/reception-registry/internal/bindings"
	"github.com/JaimeStill/reception-registry/internal/parties"
	"github.com/JaimeStill/reception-registry/pkg/pagination"
)

type service struct {
	store     Store
	parties   parties.System
	refresher Refresher
	logger    *slog.Logger
	metrics   *Metrics
}

// New creates the document system. metrics may be nil.
func New(store Store, parties parties.System, refresher Refresher, logger *slog.Logger, metrics *Metrics) System {
	return &service{
		store:     store,
		parties:   parties,
		refresher: refresher,
		logger:    logger.With("system", "documents"),
		metrics:   metrics,
	}
}

func (s *service) Create(ctx context.Context, cmd CreateCommand) (*SaveResult, error) {
	f, err := cmd.normalize()
	if err != nil {
		return nil, err
	}

	doc, err := s.store.Create(ctx, f)
	if err != nil {
		return nil, err
	}

	result := s.refresh(ctx, doc)
	s.metrics.incSave("create", result.Warning != "")
	return result, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*SaveResult, error) {
	f, err := cmd.normalize()
	if err != nil {
		return nil, err
	}

	doc, err := s.store.Update(ctx, id, f)
	if err != nil {
		return nil, err
	}

	result := s.refresh(ctx, doc)
	s.metrics.incSave("update", result.Warning != "")
	return result, nil
}

// refresh runs the artifact phase after a committed write. Failures leave
// the previous artifact reference in place and surface as a warning.
func (s *service) refresh(ctx context.Context, doc *Document) *SaveResult {
	key, err := s.refresher.Refresh(ctx, doc.ID)
	if err != nil {
		s.logger.Warn("qr refresh failed after save", "document_id", doc.ID, "error", err)
		return &SaveResult{Document: doc, Warning: err.Error()}
	}

	doc.QRArtifact = &key
	return &SaveResult{Document: doc}
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	doc, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	bs, err := s.store.Bindings(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	doc.Bindings = bs
	doc.Senders = senders(bs)
	return doc, nil
}

func (s *service) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error) {
	return s.store.List(ctx, page, filters)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.refresher.Remove(ctx, id); err != nil {
		s.logger.Warn("qr artifact left behind after delete", "document_id", id, "error", err)
	}

	s.logger.Info("document deleted", "id", id)
	return nil
}

func (s *service) AddBinding(ctx context.Context, documentID uuid.UUID, cmd BindingCommand) (*bindings.Binding, error) {
	if !cmd.Role.Valid() {
		return nil, fmt.Errorf("%w: role is required", ErrInvalidBinding)
	}
	if cmd.PartyID == uuid.Nil {
		return nil, fmt.Errorf("%w: party_id is required", ErrInvalidBinding)
	}

	if _, err := s.store.Find(ctx, documentID); err != nil {
		return nil, err
	}

	candidate, err := s.resolve(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if err := s.validate(documentID, candidate); err != nil {
		return nil, err
	}

	binding := bindings.Binding{
		DocumentID:                documentID,
		PartyID:                   candidate.Party.ID,
		PartyName:                 candidate.Party.Name,
		Role:                      cmd.Role,
		PositionID:                cmd.PositionID,
		SupervisingOrganizationID: cmd.SupervisingOrganizationID,
	}

	return s.store.InsertBinding(ctx, binding, func(ctx context.Context, types PartyTypes) error {
		locked, err := relock(ctx, candidate, types)
		if err != nil {
			return err
		}
		return s.validate(documentID, locked)
	})
}

// relock refreshes the party and supervisor types of c from the write in
// progress.
func relock(ctx context.Context, c bindings.Candidate, types PartyTypes) (bindings.Candidate, error) {
	t, err := types(ctx, c.Party.ID)
	if err != nil {
		return c, fmt.Errorf("party: %w", err)
	}
	c.Party.Type = t

	if c.Supervisor != nil {
		sup := *c.Supervisor
		if sup.Type, err = types(ctx, sup.ID); err != nil {
			return c, fmt.Errorf("supervising organization: %w", err)
		}
		c.Supervisor = &sup
	}

	return c, nil
}

func (s *service) validate(documentID uuid.UUID, c bindings.Candidate) error {
	err := bindings.Validate(c)
	if err == nil {
		return nil
	}

	var ve *bindings.ValidationError
	if errors.As(err, &ve) {
		s.metrics.incRejection(ve.Kind.String())
	}
	s.logger.Info("binding rejected",
		"document_id", documentID,
		"party_id", c.Party.ID,
		"role", c.Role,
		"error", err,
	)
	return err
}

// resolve loads every reference named by cmd. A missing reference fails
// before validation runs.
func (s *service) resolve(ctx context.Context, cmd BindingCommand) (bindings.Candidate, error) {
	party, err := s.parties.Find(ctx, cmd.PartyID)
	if err != nil {
		return bindings.Candidate{}, fmt.Errorf("party: %w", err)
	}

	c := bindings.Candidate{Role: cmd.Role, Party: *party}

	if cmd.PositionID != nil {
		pos, err := s.parties.FindPosition(ctx, *cmd.PositionID)
		if err != nil {
			return c, fmt.Errorf("position: %w", err)
		}
		c.Position = pos
	}

	if cmd.SupervisingOrganizationID != nil {
		sup, err := s.parties.Find(ctx, *cmd.SupervisingOrganizationID)
		if err != nil {
			return c, fmt.Errorf("supervising organization: %w", err)
		}
		c.Supervisor = sup
	}

	return c, nil
}

func (s *service) RemoveBinding(ctx context.Context, documentID, bindingID uuid.UUID) error {
	return s.store.DeleteBinding(ctx, documentID, bindingID)
}

func (s *service) Bindings(ctx context.Context, documentID uuid.UUID, role *bindings.Role) ([]bindings.Binding, error) {
	if _, err := s.store.Find(ctx, documentID); err != nil {
		return nil, err
	}
	return s.store.Bindings(ctx, documentID, role)
}

func (s *service) CreateType(ctx context.Context, cmd CreateTypeCommand) (*DocumentType, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Acronym = strings.TrimSpace(cmd.Acronym)
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: type name is required", ErrInvalidDocument)
	}
	return s.store.CreateType(ctx, cmd)
}

func (s *service) ListTypes(ctx context.Context) ([]DocumentType, error) {
	return s.store.ListTypes(ctx)
}

func (s *service) RefreshArtifact(ctx context.Context, id uuid.UUID) (*Document, error) {
	if _, err := s.refresher.Refresh(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Find(ctx, id)
}

func (s *service) Artifact(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if _, err := s.store.Find(ctx, id); err != nil {
		return nil, err
	}
	return s.refresher.Data(ctx, id)
}

func (s *service) Label(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if _, err := s.store.Find(ctx, id); err != nil {
		return nil, err
	}
	return s.refresher.Label(ctx, id)
}
