//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=session_action_post_test
package session_action_post

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
	PauseSession(ctx context.Context, courierID int64) (*entities.CourierSession, error)
	ResumeSession(ctx context.Context, courierID int64) (*entities.CourierSession, error)
	EndSession(ctx context.Context, courierID int64) (*entities.CourierSession, error)
}
