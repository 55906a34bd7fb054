//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=courierchannel_test
package courierchannel

import (
	"context"

	"courier-dispatch/internal/entities"
	"courier-dispatch/pkg/logger"
)

// Listener получает состояние канала и события от сервера.
// Вызывается из горутины Run, блокировать надолго нельзя.
type Listener interface {
	OnState(state entities.ConnectionState)
	OnEvent(event entities.PushEvent)
}

// Resyncer перечитывает смену и офферы с сервера после каждого подключения.
type Resyncer interface {
	Resync(ctx context.Context) error
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
}
