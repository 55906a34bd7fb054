//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=admin_code_post_test
package admin_code_post

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
	RegenerateCode(ctx context.Context, courierID int64) (string, *entities.CourierSession, error)
}
