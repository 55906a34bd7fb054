package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courier-dispatch/internal/entities"
	"courier-dispatch/internal/service/session"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const returning = "RETURNING courier_id, state, started_at, code_hash, code_rotated_at, updated_at"

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) GetByCourierID(ctx context.Context, courierID int64) (*entities.CourierSession, error) {
	query := `SELECT courier_id, state, started_at, code_hash, code_rotated_at, updated_at
		FROM courier_sessions
		WHERE courier_id = $1`

	m, err := scanSession(r.querier.QueryRow(ctx, query, courierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("unexpected session repository getbycourierid error: %w", err)
	}

	return ToDomain(m), nil
}

// UpsertCode создаёт неактивную сессию при первом выпуске кода, иначе меняет только код.
func (r *Repository) UpsertCode(ctx context.Context, courierID int64, codeHash string, at time.Time) (*entities.CourierSession, error) {
	query := `
		INSERT INTO courier_sessions (courier_id, state, code_hash, code_rotated_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (courier_id) DO UPDATE
		SET code_hash = EXCLUDED.code_hash,
			code_rotated_at = EXCLUDED.code_rotated_at,
			updated_at = EXCLUDED.updated_at
	` + returning

	m, err := scanSession(r.querier.QueryRow(
		ctx,
		query,
		courierID,
		entities.SessionInactive.String(),
		codeHash,
		at,
	))
	if err != nil {
		return nil, fmt.Errorf("unexpected session repository upsertcode error: %w", err)
	}

	return ToDomain(m), nil
}

func (r *Repository) ChangeState(ctx context.Context, change entities.SessionStateChange) (*entities.CourierSession, error) {
	where := sq.And{
		sq.Eq{"courier_id": change.CourierID},
		sq.Expr("state = ANY(?)", statesToStrings(change.From)),
	}
	if change.ExpectedCodeHash != "" {
		where = append(where, sq.Eq{"code_hash": change.ExpectedCodeHash})
	}

	query, args, err := qb.
		Update("courier_sessions").
		Set("state", change.To.String()).
		Set("started_at", change.StartedAt).
		Set("updated_at", change.At).
		Where(where).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected session repository changestate error: %w", err)
	}

	m, err := scanSession(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrStateConflict
		}
		return nil, fmt.Errorf("unexpected session repository changestate error: %w", err)
	}

	return ToDomain(m), nil
}

func (r *Repository) FilterActive(ctx context.Context, courierIDs []int64) ([]int64, error) {
	if len(courierIDs) == 0 {
		return []int64{}, nil
	}

	query := `SELECT courier_id FROM courier_sessions
		WHERE courier_id = ANY($1) AND state = $2
		ORDER BY courier_id`

	return r.ids(ctx, query, courierIDs, entities.SessionActive.String())
}

func (r *Repository) ListActive(ctx context.Context) ([]int64, error) {
	query := `SELECT courier_id FROM courier_sessions
		WHERE state = $1
		ORDER BY courier_id`

	return r.ids(ctx, query, entities.SessionActive.String())
}

func (r *Repository) List(ctx context.Context) ([]entities.CourierSession, error) {
	query := `
	SELECT courier_id, state, started_at, code_hash, code_rotated_at, updated_at
	FROM courier_sessions
	ORDER BY courier_id
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("unexpected session repository list error: %w", err)
	}
	defer rows.Close()

	var sessionsDB []SessionDB
	for rows.Next() {
		m, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected session repository list scan error: %w", err)
		}
		sessionsDB = append(sessionsDB, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected session repository list rows error: %w", err)
	}

	return ToDomainList(sessionsDB), nil
}

func (r *Repository) ids(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected session repository query error: %w", err)
	}
	defer rows.Close()

	result := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("unexpected session repository scan error: %w", err)
		}
		result = append(result, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected session repository rows error: %w", err)
	}
	return result, nil
}

func scanSession(row pgx.Row) (*SessionDB, error) {
	var m SessionDB
	err := row.Scan(
		&m.CourierID,
		&m.State,
		&m.StartedAt,
		&m.CodeHash,
		&m.CodeRotatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
