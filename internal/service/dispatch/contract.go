//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=dispatch_test
package dispatch

import (
	"context"
	"time"

	"courier-dispatch/internal/entities"
	"courier-dispatch/pkg/logger"
)

type OfferStore interface {
	Put(offer entities.DispatchOffer) bool
	Delete(orderID string, courierID int64) (entities.DispatchOffer, bool)
	Reject(orderID string, courierID int64) (entities.DispatchOffer, bool)
	DeleteOrder(orderID string) []entities.DispatchOffer
	DeleteCourier(courierID int64) []entities.DispatchOffer
	DeleteExpired(now time.Time) []entities.DispatchOffer
	ListByCourier(courierID int64) []entities.DispatchOffer
	Len() int
}

type OrderReader interface {
	GetOrder(ctx context.Context, id string) (*entities.Order, error)
	ListPending(ctx context.Context) ([]entities.Order, error)
}

// Eligibility внешний коллаборатор: кто из курьеров в принципе может везти заказ.
type Eligibility interface {
	ListCandidates(ctx context.Context, order *entities.Order) ([]int64, error)
}

type SessionFilter interface {
	FilterActive(ctx context.Context, courierIDs []int64) ([]int64, error)
}

// Pusher отправка события курьеру без ожидания. false - событие не доставлено.
type Pusher interface {
	Push(courierID int64, event entities.PushEvent) bool
}

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
}
