//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=admin_session_get_test
package admin_session_get

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
	GetSession(ctx context.Context, courierID int64) (*entities.CourierSession, error)
	ListSessions(ctx context.Context) ([]entities.CourierSession, error)
}
