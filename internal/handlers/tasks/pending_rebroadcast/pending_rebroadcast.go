package pending_rebroadcast

import (
	"context"
	"time"

	"courier-dispatch/pkg/logger"
)

type Service interface {
	RebroadcastPending(ctx context.Context) (int, error)
}

// PendingRebroadcast повторно рассылает непринятые заказы: так их видят курьеры,
// которые вышли на смену после размещения, и те, у кого предложение истекло.
type PendingRebroadcast struct {
	log      logger.Logger
	service  Service
	interval time.Duration
}

func NewPendingRebroadcast(log logger.Logger, service Service, interval time.Duration) *PendingRebroadcast {
	return &PendingRebroadcast{
		log:      log,
		service:  service,
		interval: interval,
	}
}

func (p *PendingRebroadcast) TTL() time.Duration {
	return p.interval
}

func (p *PendingRebroadcast) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	issued, err := p.service.RebroadcastPending(ctxWithTimeout)
	if issued > 0 {
		p.log.With(
			logger.NewField("issued_offers", issued),
		).Info("pending rebroadcast")
	}

	return err
}

func (p *PendingRebroadcast) Info() string {
	return "pending rebroadcast"
}
