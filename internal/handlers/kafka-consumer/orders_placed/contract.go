//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=orders_placed_test
package orders_placed

import (
	"context"

	"courier-dispatch/internal/entities"
	"courier-dispatch/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	PlaceOrder(ctx context.Context, o entities.Order) (*entities.Order, error)
}
