package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"courier-dispatch/internal/entities"
	"courier-dispatch/internal/service/order"
	"courier-dispatch/internal/service/session"
	"courier-dispatch/pkg/logger"
)

// Coordinator единая точка входа для действий курьера над заказом. Каждое действие
// требует активной смены, переходы с кодом проверяют его до записи.
type Coordinator struct {
	sessions    SessionService
	registry    Registry
	arbiter     Arbiter
	broadcaster Broadcaster
	publisher   EventPublisher
	log         handlerLogger
}

func New(
	sessions SessionService,
	registry Registry,
	arbiter Arbiter,
	broadcaster Broadcaster,
	publisher EventPublisher,
	log handlerLogger,
) *Coordinator {
	return &Coordinator{
		sessions:    sessions,
		registry:    registry,
		arbiter:     arbiter,
		broadcaster: broadcaster,
		publisher:   publisher,
		log:         log,
	}
}

// PlaceOrder регистрирует заказ от внешней системы и сразу рассылает его.
// Ошибка рассылки не отменяет размещение: заказ подхватит периодическая рассылка.
func (c *Coordinator) PlaceOrder(ctx context.Context, o entities.Order) (*entities.Order, error) {
	placed, err := c.registry.PlaceOrder(ctx, o)
	if err != nil {
		return nil, err
	}

	if _, err := c.broadcaster.Broadcast(ctx, placed); err != nil {
		c.log.Warn("failed to broadcast placed order",
			logger.NewField("order_id", placed.ID),
			logger.NewField("error", err),
		)
	}

	c.log.Info("order placed",
		logger.NewField("order_id", placed.ID),
		logger.NewField("number", placed.Number),
		logger.NewField("type", placed.Type),
	)
	return placed, nil
}

func (c *Coordinator) ListAvailableOffers(ctx context.Context, courierID int64) ([]entities.AvailableOffer, error) {
	if err := c.sessions.RequireActive(ctx, courierID); err != nil {
		return nil, err
	}
	return c.broadcaster.ListAvailable(ctx, courierID)
}

func (c *Coordinator) Accept(ctx context.Context, orderID string, courierID int64) (*entities.Order, error) {
	if err := c.sessions.RequireActive(ctx, courierID); err != nil {
		return nil, err
	}

	accepted, err := c.arbiter.Accept(ctx, orderID, courierID)
	if err != nil {
		return nil, err
	}

	c.publish(ctx, accepted, entities.ActionAccept, entities.OrderPending)
	return accepted, nil
}

func (c *Coordinator) Reject(ctx context.Context, orderID string, courierID int64) (*entities.Order, error) {
	if err := c.sessions.RequireActive(ctx, courierID); err != nil {
		return nil, err
	}
	return c.arbiter.Reject(ctx, orderID, courierID)
}

func (c *Coordinator) Collect(
	ctx context.Context,
	orderID string,
	courierID int64,
	payment entities.PaymentSelection,
	code string,
) (*entities.Order, error) {
	return c.apply(ctx, order.Command{
		OrderID:   orderID,
		CourierID: courierID,
		Action:    entities.ActionCollect,
		Payment:   payment,
		Guard:     c.codeGuard(courierID, code),
	})
}

func (c *Coordinator) Depart(ctx context.Context, orderID string, courierID int64) (*entities.Order, error) {
	return c.apply(ctx, order.Command{
		OrderID:   orderID,
		CourierID: courierID,
		Action:    entities.ActionDepart,
	})
}

func (c *Coordinator) Deliver(ctx context.Context, orderID string, courierID int64, code string) (*entities.Order, error) {
	return c.apply(ctx, order.Command{
		OrderID:   orderID,
		CourierID: courierID,
		Action:    entities.ActionDeliver,
		Guard:     c.codeGuard(courierID, code),
	})
}

// Cancel без кода: отмена разрешена из accepted и in_delivery.
func (c *Coordinator) Cancel(ctx context.Context, orderID string, courierID int64) (*entities.Order, error) {
	return c.apply(ctx, order.Command{
		OrderID:   orderID,
		CourierID: courierID,
		Action:    entities.ActionCancel,
	})
}

func (c *Coordinator) apply(ctx context.Context, cmd order.Command) (*entities.Order, error) {
	if err := c.sessions.RequireActive(ctx, cmd.CourierID); err != nil {
		return nil, err
	}

	// исходный статус нужен для события, guard видит заказ прямо перед записью
	var from entities.OrderStatusType
	guard := cmd.Guard
	cmd.Guard = func(ctx context.Context, o *entities.Order) error {
		from = o.Status
		if guard != nil {
			return guard(ctx, o)
		}
		return nil
	}

	updated, err := c.registry.Apply(ctx, cmd)
	if err != nil {
		return nil, err
	}

	c.publish(ctx, updated, cmd.Action, from)
	return updated, nil
}

func (c *Coordinator) codeGuard(courierID int64, code string) order.Guard {
	return func(ctx context.Context, _ *entities.Order) error {
		err := c.sessions.VerifyCode(ctx, courierID, code)
		if err == nil {
			return nil
		}
		if errors.Is(err, session.ErrInvalidCode) || errors.Is(err, session.ErrCodeNotIssued) {
			return fmt.Errorf("%w: %w", ErrInvalidSecurityCode, err)
		}
		return fmt.Errorf("verify code: %w", err)
	}
}

func (c *Coordinator) publish(ctx context.Context, o *entities.Order, action entities.OrderAction, from entities.OrderStatusType) {
	event := entities.NewOrderStatusChanged(o, action, from)
	if err := c.publisher.PublishStatusChanged(ctx, event); err != nil {
		c.log.Error("failed to publish order status change",
			logger.NewField("order_id", o.ID),
			logger.NewField("action", action),
			logger.NewField("error", err),
		)
	}
}
