package main

import (
	"context"
	"fmt"

	"courier-dispatch/internal/client/courierapi"
	"courier-dispatch/internal/entities"
	"courier-dispatch/pkg/logger"
)

type printer struct {
	log logger.Logger
}

func newPrinter(log logger.Logger) *printer {
	return &printer{log: log}
}

func (p *printer) OnState(state entities.ConnectionState) {
	fields := []logger.Field{logger.NewField("status", state.Status)}
	if state.Status == entities.ConnectionReconnecting {
		fields = append(fields, logger.NewField("attempt", fmt.Sprintf("%d/%d", state.Attempt, state.MaxAttempts)))
	}
	p.log.Info("channel state", fields...)
}

func (p *printer) OnEvent(event entities.PushEvent) {
	switch event.Type {
	case entities.PushOffer:
		fields := []logger.Field{logger.NewField("order_id", event.OrderID)}
		if event.Order != nil {
			fields = append(fields,
				logger.NewField("number", event.Order.Number),
				logger.NewField("payout", event.Order.Payout.String()),
			)
		}
		if event.ExpiresAt != nil {
			fields = append(fields, logger.NewField("expires_at", event.ExpiresAt))
		}
		p.log.Info("new offer", fields...)
	case entities.PushOfferRetracted:
		p.log.Info("offer retracted", logger.NewField("order_id", event.OrderID))
	default:
		p.log.Debug("push event", logger.NewField("type", event.Type))
	}
}

// resync сервер главный: после подключения смена и офферы перечитываются целиком.
type resync struct {
	log logger.Logger
	api *courierapi.Client
}

func newResync(log logger.Logger, api *courierapi.Client) *resync {
	return &resync{log: log, api: api}
}

func (r *resync) Resync(ctx context.Context) error {
	session, err := r.api.Session(ctx)
	if err != nil {
		return err
	}

	offers, err := r.api.Offers(ctx)
	if err != nil {
		return err
	}

	r.log.Info("state synced",
		logger.NewField("session_state", session.State),
		logger.NewField("available_offers", len(offers)),
	)
	return nil
}
