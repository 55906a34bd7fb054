package arbiter

import (
	"context"
	"fmt"
	"time"

	"courier-dispatch/internal/entities"
	"courier-dispatch/internal/service/order"
	"courier-dispatch/pkg/logger"
)

type Arbiter struct {
	accepter    OrderAccepter
	orders      OrderReader
	broadcaster Broadcaster
	log         handlerLogger
	now         func() time.Time
}

func New(accepter OrderAccepter, orders OrderReader, broadcaster Broadcaster, log handlerLogger) *Arbiter {
	return &Arbiter{
		accepter:    accepter,
		orders:      orders,
		broadcaster: broadcaster,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Accept из всех одновременных попыток взять заказ успешна ровно одна,
// остальные получают order.ErrAlreadyTaken. Офферы проигравших снимаются.
func (a *Arbiter) Accept(ctx context.Context, orderID string, courierID int64) (*entities.Order, error) {
	if orderID == "" {
		return nil, order.ErrInvalidOrderID
	}

	accepted, err := a.accepter.Accept(ctx, orderID, courierID, a.now())
	if err != nil {
		return nil, fmt.Errorf("accept order %s: %w", orderID, err)
	}

	a.broadcaster.RetractOthers(ctx, orderID, courierID)
	return accepted, nil
}

// Reject снимает оффер только у этого курьера. Заказ остаётся pending
// и сразу уходит остальным подходящим курьерам.
func (a *Arbiter) Reject(ctx context.Context, orderID string, courierID int64) (*entities.Order, error) {
	current, err := a.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, ok := entities.NextOrderStatus(current.Status, entities.ActionReject); !ok {
		return nil, fmt.Errorf("%w: reject from %s", order.ErrInvalidTransition, current.Status)
	}

	a.broadcaster.Withdraw(ctx, orderID, courierID)

	if _, err := a.broadcaster.Broadcast(ctx, current); err != nil {
		a.log.Warn("failed to rebroadcast rejected order",
			logger.NewField("order_id", orderID),
			logger.NewField("error", err),
		)
	}
	return current, nil
}
