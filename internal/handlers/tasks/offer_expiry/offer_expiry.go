package offer_expiry

import (
	"context"
	"time"

	"courier-dispatch/pkg/logger"
)

type Service interface {
	ExpireOffers(ctx context.Context) int
}

// OfferExpiry снимает просроченные предложения с курьеров.
type OfferExpiry struct {
	log      logger.Logger
	service  Service
	interval time.Duration
}

func NewOfferExpiry(log logger.Logger, service Service, interval time.Duration) *OfferExpiry {
	return &OfferExpiry{
		log:      log,
		service:  service,
		interval: interval,
	}
}

func (o *OfferExpiry) TTL() time.Duration {
	return o.interval
}

func (o *OfferExpiry) Do(ctx context.Context) error {
	expired := o.service.ExpireOffers(ctx)
	if expired > 0 {
		o.log.With(
			logger.NewField("expired_offers", expired),
		).Info("offer expiry")
	}
	return nil
}

func (o *OfferExpiry) Info() string {
	return "offer expiry"
}
