package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"courier-dispatch/internal/entities"
	"courier-dispatch/internal/repository"
	"courier-dispatch/internal/service/order"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var selectColumns = []string{
	"id::text",
	"number",
	"status",
	"courier_id",
	"type",
	"provider_id",
	"client_id",
	"pickups",
	"payment_mode",
	"total::text",
	"courier_payouts",
	"platform_share::text",
	"created_at",
	"accepted_at",
	"collected_at",
	"departed_at",
	"delivered_at",
	"cancelled_at",
	"updated_at",
	"version",
}

var returning = "RETURNING " + strings.Join(selectColumns, ", ")

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Create(ctx context.Context, o entities.Order) (*entities.Order, error) {
	m, err := FromDomain(&o)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository create error: %w", err)
	}

	query, args, err := qb.
		Insert("orders").
		Columns(
			"id", "number", "status", "courier_id", "type", "provider_id", "client_id",
			"pickups", "payment_mode", "total", "courier_payouts", "platform_share",
			"created_at", "updated_at", "version",
		).
		Values(
			m.ID, m.Number, m.Status, m.CourierID, m.Type, m.ProviderID, m.ClientID,
			m.Pickups, m.PaymentMode, m.Total, m.CourierPayouts, m.PlatformShare,
			m.CreatedAt, m.UpdatedAt, m.Version,
		).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository create error: %w", err)
	}

	created, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return nil, order.ErrOrderExists
		}
		return nil, fmt.Errorf("unexpected order repository create error: %w", err)
	}

	return ToDomain(created)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Order, error) {
	query, args, err := qb.
		Select(selectColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository getbyid error: %w", err)
	}

	m, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if repository.IsNoRow(err) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("unexpected order repository getbyid error: %w", err)
	}

	return ToDomain(m)
}

func (r *Repository) ListByCourier(ctx context.Context, courierID int64) ([]entities.Order, error) {
	return r.list(ctx, sq.Eq{"courier_id": courierID})
}

func (r *Repository) ListByStatus(ctx context.Context, status entities.OrderStatusType) ([]entities.Order, error) {
	return r.list(ctx, sq.Eq{"status": status.String()})
}

// UpdateConditional один UPDATE с условием на (id, status, version, courier_id).
func (r *Repository) UpdateConditional(ctx context.Context, o entities.Order, t entities.OrderTransition) (*entities.Order, error) {
	m, err := FromDomain(&o)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository update error: %w", err)
	}

	query, args, err := qb.
		Update("orders").
		Set("status", m.Status).
		Set("courier_id", m.CourierID).
		Set("pickups", m.Pickups).
		Set("payment_mode", m.PaymentMode).
		Set("accepted_at", m.AcceptedAt).
		Set("collected_at", m.CollectedAt).
		Set("departed_at", m.DepartedAt).
		Set("delivered_at", m.DeliveredAt).
		Set("cancelled_at", m.CancelledAt).
		Set("updated_at", m.UpdatedAt).
		Set("version", m.Version).
		Where(sq.Eq{
			"id":         m.ID,
			"status":     t.ExpectedStatus.String(),
			"version":    t.ExpectedVersion,
			"courier_id": t.CourierID,
		}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository update error: %w", err)
	}

	updated, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.missOrStale(ctx, o.ID, order.ErrStaleOrder)
		}
		return nil, fmt.Errorf("unexpected order repository update error: %w", err)
	}

	return ToDomain(updated)
}

// Accept атомарный захват заказа: из всех параллельных вызовов строку обновит только один.
func (r *Repository) Accept(ctx context.Context, orderID string, courierID int64, at time.Time) (*entities.Order, error) {
	query := `
		UPDATE orders
		SET status = $2, courier_id = $3, accepted_at = $4, updated_at = $4, version = version + 1
		WHERE id = $1 AND status = $5 AND courier_id IS NULL
	` + returning

	m, err := scanOrder(r.querier.QueryRow(
		ctx,
		query,
		orderID,
		entities.OrderAccepted.String(),
		courierID,
		at,
		entities.OrderPending.String(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.missOrStale(ctx, orderID, order.ErrAlreadyTaken)
		}
		if repository.IsPgErrorWithCode(err, repository.PgErrInvalidTextRepresentation) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("unexpected order repository accept error: %w", err)
	}

	return ToDomain(m)
}

func (r *Repository) list(ctx context.Context, where sq.Sqlizer) ([]entities.Order, error) {
	query, args, err := qb.
		Select(selectColumns...).
		From("orders").
		Where(where).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository list error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository list error: %w", err)
	}
	defer rows.Close()

	var ordersDB []OrderDB
	for rows.Next() {
		m, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected order repository list scan error: %w", err)
		}
		ordersDB = append(ordersDB, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected order repository list rows error: %w", err)
	}

	return ToDomainList(ordersDB)
}

// missOrStale отличает отсутствующий заказ от проигранной гонки после пустого UPDATE.
func (r *Repository) missOrStale(ctx context.Context, orderID string, stale error) error {
	if _, err := r.GetByID(ctx, orderID); err != nil {
		return err
	}
	return stale
}

func scanOrder(row pgx.Row) (*OrderDB, error) {
	var m OrderDB
	err := row.Scan(
		&m.ID,
		&m.Number,
		&m.Status,
		&m.CourierID,
		&m.Type,
		&m.ProviderID,
		&m.ClientID,
		&m.Pickups,
		&m.PaymentMode,
		&m.Total,
		&m.CourierPayouts,
		&m.PlatformShare,
		&m.CreatedAt,
		&m.AcceptedAt,
		&m.CollectedAt,
		&m.DepartedAt,
		&m.DeliveredAt,
		&m.CancelledAt,
		&m.UpdatedAt,
		&m.Version,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
