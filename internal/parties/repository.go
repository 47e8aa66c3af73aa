package parties

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/reception-registry/pkg/pagination"
	"github.com/JaimeStill/reception-registry/pkg/query"
	"github.com/JaimeStill/reception-registry/pkg/repository"
	"github.com/google/uuid"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a PostgreSQL-backed party registry.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "parties"),
		pagination: pagination,
	}
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Party, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanParty)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Party], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name")

	filters.Apply(qb)
	qb.OrderByFields(page.Sort)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count parties: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanParty)
	if err != nil {
		return nil, fmt.Errorf("query parties: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Party, error) {
	if err := validateCommand(cmd.Name, cmd.Type); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO parties (name, party_type)
		VALUES ($1, $2)
		RETURNING id, name, party_type, created_at, updated_at`

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Party, error) {
		return repository.QueryOne(ctx, tx, q, []any{strings.TrimSpace(cmd.Name), cmd.Type.String()}, scanParty)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("party created", "id", p.ID, "name", p.Name, "type", p.Type)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Party, error) {
	if err := validateCommand(cmd.Name, cmd.Type); err != nil {
		return nil, err
	}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Party, error) {
		var current string
		err := tx.QueryRowContext(ctx,
			"SELECT party_type FROM parties WHERE id = $1 FOR UPDATE", id,
		).Scan(&current)
		if err != nil {
			return Party{}, err
		}

		if current != cmd.Type.String() {
			locked, err := referenced(ctx, tx, id)
			if err != nil {
				return Party{}, err
			}
			if locked {
				return Party{}, ErrTypeLocked
			}
		}

		q := `
			UPDATE parties
			SET name = $1, party_type = $2, updated_at = NOW()
			WHERE id = $3
			RETURNING id, name, party_type, created_at, updated_at`

		return repository.QueryOne(ctx, tx, q, []any{strings.TrimSpace(cmd.Name), cmd.Type.String(), id}, scanParty)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("party updated", "id", p.ID, "name", p.Name, "type", p.Type)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM parties WHERE id = $1", id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("party deleted", "id", id)
	return nil
}

func (r *repo) FindPosition(ctx context.Context, id uuid.UUID) (*Position, error) {
	q := "SELECT id, name, created_at FROM positions WHERE id = $1"

	p, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanPosition)
	if err != nil {
		return nil, repository.MapError(err, ErrPositionNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) CreatePosition(ctx context.Context, cmd CreatePositionCommand) (*Position, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: position name is required", ErrInvalidParty)
	}

	q := `
		INSERT INTO positions (name)
		VALUES ($1)
		RETURNING id, name, created_at`

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Position, error) {
		return repository.QueryOne(ctx, tx, q, []any{name}, scanPosition)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrPositionNotFound, ErrDuplicate)
	}

	r.logger.Info("position created", "id", p.ID, "name", p.Name)
	return &p, nil
}

func (r *repo) ListPositions(ctx context.Context) ([]Position, error) {
	q := "SELECT id, name, created_at FROM positions ORDER BY name"

	items, err := repository.QueryMany(ctx, r.db, q, nil, scanPosition)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	return items, nil
}

func referenced(ctx context.Context, q repository.Querier, id uuid.UUID) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bindings
			WHERE party_id = $1 OR supervising_organization_id = $1
		)`, id,
	).Scan(&exists)
	return exists, err
}
