//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_action_post_test
package order_action_post

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
	Accept(ctx context.Context, orderID string, courierID int64) (*entities.Order, error)
	Reject(ctx context.Context, orderID string, courierID int64) (*entities.Order, error)
	Collect(ctx context.Context, orderID string, courierID int64, payment entities.PaymentSelection, code string) (*entities.Order, error)
	Depart(ctx context.Context, orderID string, courierID int64) (*entities.Order, error)
	Deliver(ctx context.Context, orderID string, courierID int64, code string) (*entities.Order, error)
	Cancel(ctx context.Context, orderID string, courierID int64) (*entities.Order, error)
}
