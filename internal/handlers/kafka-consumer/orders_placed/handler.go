package orders_placed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"courier-dispatch/internal/dto"
	orderservice "courier-dispatch/internal/service/order"
	"courier-dispatch/pkg/logger"

	"github.com/IBM/sarama"
)

type Handler struct {
	orderService             Service
	log                      handlerLogger
	messageProcessingTimeout time.Duration
}

func New(log handlerLogger, orderService Service, timeout time.Duration) *Handler {
	handlerLog := log.With(logger.NewField("handler", "orders.placed"))

	return &Handler{
		orderService:             orderService,
		log:                      handlerLog,
		messageProcessingTimeout: timeout,
	}
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				h.log.Info("orders.placed: claim.Messages() closed, exiting ConsumeClaim")
				return nil
			}

			shouldExit := h.messageProcessing(sess, message)
			if shouldExit {
				return nil
			}

		case <-sess.Context().Done():
			// rebalance или остановка consumer group
			h.log.Info("orders.placed: session context done, exiting ConsumeClaim")
			return nil
		}
	}
}

// messageProcessing обрабатывает одно сообщение из Kafka.
// Возвращает true, если нужно прервать ConsumeClaim (при отмене контекста),
// тогда сообщение не помечается и будет перечитано.
func (h *Handler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	ctx, cancel := context.WithTimeout(sess.Context(), h.messageProcessingTimeout)
	defer cancel()

	var req dto.PlaceOrderRequest
	err := json.Unmarshal(message.Value, &req)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
			logger.NewField("offset", message.Offset),
		).Error("orders.placed handler received bad message")
		sess.MarkMessage(message, "")
		return false
	}

	msgLog := h.log.With(
		logger.NewField("order", req.ID),
		logger.NewField("type", req.Type),
		logger.NewField("offset", message.Offset),
	)

	placed, err := h.orderService.PlaceOrder(ctx, req.ToDomain())
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("orders.placed handler context cancelled, message will be reprocessed")
			return true

		case errors.Is(err, orderservice.ErrOrderExists):
			// повторная доставка того же сообщения
			msgLog.Info("orders.placed: order already placed, skipping")

		case errors.Is(err, orderservice.ErrInvalidOrder):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("orders.placed handler rejected invalid order")

		default:
			msgLog.With(
				logger.NewField("error", err),
			).Error("orders.placed handler failed to place order")
		}
		sess.MarkMessage(message, "")
		return false
	}

	h.log.With(
		logger.NewField("order", placed.ID),
		logger.NewField("number", placed.Number),
		logger.NewField("offset", message.Offset),
	).Info("orders.placed: processed")

	sess.MarkMessage(message, "")
	return false
}
