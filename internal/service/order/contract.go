//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_test
package order

import (
	"context"

	"courier-dispatch/internal/entities"
)

type Repository interface {
	Create(ctx context.Context, order entities.Order) (*entities.Order, error)
	GetByID(ctx context.Context, id string) (*entities.Order, error)
	ListByCourier(ctx context.Context, courierID int64) ([]entities.Order, error)
	ListByStatus(ctx context.Context, status entities.OrderStatusType) ([]entities.Order, error)
	// UpdateConditional сохраняет заказ, только если в хранилище он всё ещё
	// в transition.ExpectedStatus/ExpectedVersion и закреплён за transition.CourierID.
	UpdateConditional(ctx context.Context, order entities.Order, transition entities.OrderTransition) (*entities.Order, error)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type IDGenerator interface {
	NewOrderID() string
	NewOrderNumber() string
}
