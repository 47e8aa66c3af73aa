package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/reception-registry/internal/bindings"
	"github.com/JaimeStill/reception-registry/internal/parties"
	"github.com/JaimeStill/reception-registry/internal/qrcodes"
	"github.com/JaimeStill/reception-registry/pkg/pagination"
	"github.com/JaimeStill/reception-registry/pkg/query"
	"github.com/JaimeStill/reception-registry/pkg/repository"
)

// touchDocument advances updated_at strictly past its previous value.
const touchDocument = `
	UPDATE documents
	SET updated_at = GREATEST(clock_timestamp(), updated_at + INTERVAL '1 microsecond')
	WHERE id = $1`

const bindingColumns = `
	SELECT b.id, b.document_id, b.party_id, p.name, b.role,
		b.position_id, b.supervising_organization_id, b.created_at
	FROM bindings b
	JOIN parties p ON p.id = b.party_id`

type pgStore struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// NewPostgres creates a Store backed by PostgreSQL.
func NewPostgres(db *sql.DB, logger *slog.Logger, pagination pagination.Config) Store {
	return &pgStore{
		db:         db,
		logger:     logger.With("system", "documents.store"),
		pagination: pagination,
	}
}

func (s *pgStore) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.find(ctx, s.db, id)
}

func (s *pgStore) find(ctx context.Context, q repository.Querier, id uuid.UUID) (*Document, error) {
	sqlText, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, q, sqlText, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (s *pgStore) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error) {
	page.Normalize(s.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Identifier", "Reference", "TypeName")

	filters.Apply(qb)
	qb.OrderByFields(page.Sort)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (s *pgStore) Create(ctx context.Context, f Fields) (*Document, error) {
	q := `
		INSERT INTO documents (type_id, identifier, reference, observations, received_at, external_link)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	d, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (*Document, error) {
		var id uuid.UUID
		err := tx.QueryRowContext(ctx, q,
			f.TypeID, f.Identifier, f.Reference, f.Observations, f.ReceivedAt, f.ExternalLink,
		).Scan(&id)
		if err != nil {
			return nil, mapTypeReference(err)
		}
		return s.find(ctx, tx, id)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	s.logger.Info("document created", "id", d.ID, "type", d.TypeName)
	return d, nil
}

func (s *pgStore) Update(ctx context.Context, id uuid.UUID, f Fields) (*Document, error) {
	q := `
		UPDATE documents
		SET type_id = $1, identifier = $2, reference = $3, observations = $4,
			received_at = $5, external_link = $6,
			updated_at = GREATEST(clock_timestamp(), updated_at + INTERVAL '1 microsecond')
		WHERE id = $7`

	d, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (*Document, error) {
		err := repository.ExecExpectOne(ctx, tx, q,
			f.TypeID, f.Identifier, f.Reference, f.Observations, f.ReceivedAt, f.ExternalLink, id,
		)
		if err != nil {
			return nil, mapTypeReference(err)
		}
		return s.find(ctx, tx, id)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	s.logger.Info("document updated", "id", d.ID)
	return d, nil
}

func (s *pgStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx, "DELETE FROM documents WHERE id = $1", id)
		return struct{}{}, err
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	s.logger.Info("document deleted", "id", id)
	return nil
}

func (s *pgStore) Snapshot(ctx context.Context, id uuid.UUID) (qrcodes.Snapshot, error) {
	q := `
		SELECT id, type_name, identifier, received_at, external_link
		FROM document_records
		WHERE id = $1`

	snap, err := repository.QueryOne(ctx, s.db, q, []any{id}, scanSnapshot)
	if err != nil {
		return snap, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return snap, nil
}

func (s *pgStore) SetArtifact(ctx context.Context, id uuid.UUID, key string) error {
	err := repository.ExecExpectOne(ctx, s.db, "UPDATE documents SET qr_artifact = $1 WHERE id = $2", key, id)
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

func (s *pgStore) FindType(ctx context.Context, id uuid.UUID) (*DocumentType, error) {
	q := "SELECT id, name, acronym FROM document_types WHERE id = $1"

	t, err := repository.QueryOne(ctx, s.db, q, []any{id}, scanType)
	if err != nil {
		return nil, repository.MapError(err, ErrTypeNotFound, ErrDuplicate)
	}
	return &t, nil
}

func (s *pgStore) CreateType(ctx context.Context, cmd CreateTypeCommand) (*DocumentType, error) {
	q := `
		INSERT INTO document_types (name, acronym)
		VALUES ($1, $2)
		RETURNING id, name, acronym`

	t, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (DocumentType, error) {
		return repository.QueryOne(ctx, tx, q, []any{cmd.Name, cmd.Acronym}, scanType)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrTypeNotFound, ErrDuplicate)
	}

	s.logger.Info("document type created", "id", t.ID, "name", t.Name)
	return &t, nil
}

func (s *pgStore) ListTypes(ctx context.Context) ([]DocumentType, error) {
	types, err := repository.QueryMany(ctx, s.db,
		"SELECT id, name, acronym FROM document_types ORDER BY name", nil, scanType)
	if err != nil {
		return nil, fmt.Errorf("query document types: %w", err)
	}
	return types, nil
}

func (s *pgStore) InsertBinding(ctx context.Context, b bindings.Binding, check BindingCheck) (*bindings.Binding, error) {
	q := `
		INSERT INTO bindings (document_id, party_id, role, position_id, supervising_organization_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	out, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (bindings.Binding, error) {
		if err := check(ctx, sharedPartyTypes(tx)); err != nil {
			return bindings.Binding{}, err
		}

		var id uuid.UUID
		err := tx.QueryRowContext(ctx, q,
			b.DocumentID, b.PartyID, b.Role.String(), b.PositionID, b.SupervisingOrganizationID,
		).Scan(&id)
		if err != nil {
			return bindings.Binding{}, err
		}

		if err := repository.ExecExpectOne(ctx, tx, touchDocument, b.DocumentID); err != nil {
			return bindings.Binding{}, err
		}

		return repository.QueryOne(ctx, tx, bindingColumns+" WHERE b.id = $1", []any{id}, scanBinding)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	s.logger.Info("binding added", "id", out.ID, "document_id", out.DocumentID, "party_id", out.PartyID, "role", out.Role)
	return &out, nil
}

// sharedPartyTypes reads party types under FOR SHARE so a concurrent type
// change waits for the binding write to commit.
func sharedPartyTypes(tx *sql.Tx) PartyTypes {
	return func(ctx context.Context, id uuid.UUID) (parties.Type, error) {
		var raw string
		err := tx.QueryRowContext(ctx,
			"SELECT party_type FROM parties WHERE id = $1 FOR SHARE", id,
		).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, parties.ErrNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("lock party: %w", err)
		}
		return parties.ParseType(raw)
	}
}

func (s *pgStore) DeleteBinding(ctx context.Context, documentID, bindingID uuid.UUID) error {
	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx,
			"DELETE FROM bindings WHERE id = $1 AND document_id = $2", bindingID, documentID)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, repository.ExecExpectOne(ctx, tx, touchDocument, documentID)
	})
	if err != nil {
		return repository.MapError(err, ErrBindingNotFound, ErrDuplicate)
	}

	s.logger.Info("binding removed", "id", bindingID, "document_id", documentID)
	return nil
}

func (s *pgStore) Bindings(ctx context.Context, documentID uuid.UUID, role *bindings.Role) ([]bindings.Binding, error) {
	var (
		where strings.Builder
		args  = []any{documentID}
	)
	where.WriteString(" WHERE b.document_id = $1")
	if role != nil {
		where.WriteString(" AND b.role = $2")
		args = append(args, role.String())
	}

	items, err := repository.QueryMany(ctx, s.db, bindingColumns+where.String()+" ORDER BY b.seq", args, scanBinding)
	if err != nil {
		return nil, fmt.Errorf("query bindings: %w", err)
	}
	return items, nil
}

// mapTypeReference reports a foreign key violation on type_id as an unknown
// document type.
func mapTypeReference(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" && pgErr.ConstraintName == "documents_type_id_fkey" {
		return ErrTypeNotFound
	}
	return err
}
