//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=lifecycle_test
package lifecycle

import (
	"context"

	"courier-dispatch/internal/entities"
	"courier-dispatch/internal/service/order"
	"courier-dispatch/pkg/logger"
)

type SessionService interface {
	RequireActive(ctx context.Context, courierID int64) error
	VerifyCode(ctx context.Context, courierID int64, code string) error
}

type Registry interface {
	PlaceOrder(ctx context.Context, o entities.Order) (*entities.Order, error)
	Apply(ctx context.Context, cmd order.Command) (*entities.Order, error)
}

type Arbiter interface {
	Accept(ctx context.Context, orderID string, courierID int64) (*entities.Order, error)
	Reject(ctx context.Context, orderID string, courierID int64) (*entities.Order, error)
}

type Broadcaster interface {
	Broadcast(ctx context.Context, order *entities.Order) (int, error)
	ListAvailable(ctx context.Context, courierID int64) ([]entities.AvailableOffer, error)
}

type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event entities.OrderStatusChanged) error
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
}
