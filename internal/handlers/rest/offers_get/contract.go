//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=offers_get_test
package offers_get

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
	ListAvailableOffers(ctx context.Context, courierID int64) ([]entities.AvailableOffer, error)
}
