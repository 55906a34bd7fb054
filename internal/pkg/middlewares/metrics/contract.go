//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=metrics_test
package metrics

import "courier-dispatch/pkg/logger"

type handlerLogger interface {
	With(fields ...logger.Field) logger.Logger
}
