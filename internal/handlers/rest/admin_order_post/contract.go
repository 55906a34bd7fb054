//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=admin_order_post_test
package admin_order_post

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
