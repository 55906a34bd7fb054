package rate_limiter

import "courier-dispatch/pkg/logger"

// Limiter лимит на ключ: курьер из токена или адрес клиента.
type Limiter interface {
	Allow(key string) bool
}

type handlerLogger interface {
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
