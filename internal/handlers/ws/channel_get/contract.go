//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=channel_get_test
package channel_get

import (
	"net/http"

	"courier-dispatch/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Hub interface {
	Serve(w http.ResponseWriter, r *http.Request, courierID int64) error
}
