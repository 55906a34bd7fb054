package courierchannel

import "errors"

var (
	// ErrChannelDisconnected обрыв канала, обрабатывается переподключением.
	ErrChannelDisconnected = errors.New("channel disconnected")
	// ErrRetriesExhausted все попытки переподключения исчерпаны, нужен ручной Run.
	ErrRetriesExhausted = errors.New("reconnect retries exhausted")
	ErrUnauthorized     = errors.New("channel unauthorized")
)
