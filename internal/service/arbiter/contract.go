//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=arbiter_test
package arbiter

import (
	"context"
	"time"

	"courier-dispatch/internal/entities"
	"courier-dispatch/pkg/logger"
)

// OrderAccepter атомарный захват pending-заказа, единственная межкурьерская критическая секция.
type OrderAccepter interface {
	Accept(ctx context.Context, orderID string, courierID int64, at time.Time) (*entities.Order, error)
}

type OrderReader interface {
	GetOrder(ctx context.Context, id string) (*entities.Order, error)
}

type Broadcaster interface {
	Broadcast(ctx context.Context, order *entities.Order) (int, error)
	RetractOthers(ctx context.Context, orderID string, winnerID int64)
	Withdraw(ctx context.Context, orderID string, courierID int64)
}

type handlerLogger interface {
	Warn(msg string, fields ...logger.Field)
}
