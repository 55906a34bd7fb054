package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courier-dispatch/internal/entities"
)

// Guard дополнительная проверка перед записью (например, секретный код курьера).
// Вызывается после проверок перехода, назначения и оплаты.
type Guard func(ctx context.Context, order *entities.Order) error

type Command struct {
	OrderID   string
	CourierID int64
	Action    entities.OrderAction
	Payment   entities.PaymentSelection
	Guard     Guard
}

type Registry struct {
	repository  Repository
	txManager   TxManager
	idGenerator IDGenerator
	now         func() time.Time
}

func New(repository Repository, txManager TxManager, idGenerator IDGenerator) *Registry {
	return &Registry{
		repository:  repository,
		txManager:   txManager,
		idGenerator: idGenerator,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (r *Registry) PlaceOrder(ctx context.Context, o entities.Order) (*entities.Order, error) {
	if o.Status == "" {
		o.Status = entities.OrderPending
	}
	if err := validateNewOrder(o); err != nil {
		return nil, err
	}

	if o.ID == "" {
		o.ID = r.idGenerator.NewOrderID()
	}
	if o.Number == "" {
		o.Number = r.idGenerator.NewOrderNumber()
	}
	now := r.now()
	o.CreatedAt = now
	o.UpdatedAt = now
	o.Version = 1

	created, err := r.repository.Create(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	return created, nil
}

func (r *Registry) GetOrder(ctx context.Context, id string) (*entities.Order, error) {
	if !isValidOrderID(id) {
		return nil, ErrInvalidOrderID
	}

	o, err := r.repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (r *Registry) ListByCourier(ctx context.Context, courierID int64) ([]entities.Order, error) {
	orders, err := r.repository.ListByCourier(ctx, courierID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courier orders: %w", err)
	}
	return orders, nil
}

func (r *Registry) ListPending(ctx context.Context) ([]entities.Order, error) {
	orders, err := r.repository.ListByStatus(ctx, entities.OrderPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending orders: %w", err)
	}
	return orders, nil
}

// Apply проводит collect/depart/deliver/cancel. accept и reject идут через арбитра:
// у них другая модель конкуренции (заказ ещё ни за кем не закреплён).
// Порядок проверок: переход, назначение, оплата, guard. При любой ошибке заказ не меняется.
func (r *Registry) Apply(ctx context.Context, cmd Command) (*entities.Order, error) {
	if !isValidOrderID(cmd.OrderID) {
		return nil, ErrInvalidOrderID
	}

	var result *entities.Order
	err := r.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := r.GetOrder(ctx, cmd.OrderID)
		if err != nil {
			return err
		}

		transition, err := r.check(current, cmd)
		if err != nil {
			return err
		}

		if cmd.Guard != nil {
			if err := cmd.Guard(ctx, current); err != nil {
				return err
			}
		}

		next := *current
		next.Apply(transition)

		updated, err := r.repository.UpdateConditional(ctx, next, transition)
		if err != nil {
			if errors.Is(err, ErrStaleOrder) {
				return fmt.Errorf("%w: order %s was changed by another request", ErrInvalidTransition, cmd.OrderID)
			}
			return fmt.Errorf("failed to apply %s: %w", cmd.Action, err)
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *Registry) check(current *entities.Order, cmd Command) (entities.OrderTransition, error) {
	if cmd.Action == entities.ActionAccept || cmd.Action == entities.ActionReject {
		return entities.OrderTransition{}, fmt.Errorf("%w: %s is decided by the arbiter", ErrInvalidTransition, cmd.Action)
	}

	next, ok := entities.NextOrderStatus(current.Status, cmd.Action)
	if !ok {
		return entities.OrderTransition{}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, cmd.Action, current.Status)
	}

	if !current.AssignedTo(cmd.CourierID) {
		return entities.OrderTransition{}, ErrNotAssignedCourier
	}

	if cmd.Action == entities.ActionCollect {
		if cmd.Payment == nil {
			return entities.OrderTransition{}, fmt.Errorf("%w: payment selection is required", ErrPaymentModeMismatch)
		}
		if err := cmd.Payment.Validate(current); err != nil {
			return entities.OrderTransition{}, fmt.Errorf("%w: %w", ErrPaymentModeMismatch, err)
		}
	}

	return entities.OrderTransition{
		OrderID:         current.ID,
		CourierID:       cmd.CourierID,
		Action:          cmd.Action,
		ExpectedStatus:  current.Status,
		ExpectedVersion: current.Version,
		NextStatus:      next,
		Payment:         cmd.Payment,
		At:              r.now(),
	}, nil
}
