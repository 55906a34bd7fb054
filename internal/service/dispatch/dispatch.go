package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courier-dispatch/internal/entities"
	"courier-dispatch/internal/service/order"
	"courier-dispatch/pkg/logger"
)

// Dispatch раздаёт pending-заказы активным курьерам и снимает офферы,
// когда заказ ушёл, курьер отказался или закончил смену.
type Dispatch struct {
	store       OfferStore
	orders      OrderReader
	eligibility Eligibility
	sessions    SessionFilter
	pusher      Pusher
	log         handlerLogger
	offerTTL    time.Duration
	now         func() time.Time
}

func New(
	store OfferStore,
	orders OrderReader,
	eligibility Eligibility,
	sessions SessionFilter,
	pusher Pusher,
	log handlerLogger,
	offerTTL time.Duration,
) *Dispatch {
	return &Dispatch{
		store:       store,
		orders:      orders,
		eligibility: eligibility,
		sessions:    sessions,
		pusher:      pusher,
		log:         log,
		offerTTL:    offerTTL,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Broadcast предлагает заказ каждому подходящему активному курьеру, у которого ещё
// нет оффера и который от заказа не отказывался. Возвращает число новых офферов.
func (d *Dispatch) Broadcast(ctx context.Context, o *entities.Order) (int, error) {
	if o.Status != entities.OrderPending {
		return 0, nil
	}

	candidates, err := d.eligibility.ListCandidates(ctx, o)
	if err != nil {
		return 0, fmt.Errorf("list candidates for order %s: %w", o.ID, err)
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	active, err := d.sessions.FilterActive(ctx, candidates)
	if err != nil {
		return 0, fmt.Errorf("filter active couriers for order %s: %w", o.ID, err)
	}

	now := d.now()
	snapshot := o.Snapshot()
	issued := make([]entities.DispatchOffer, 0, len(active))
	for _, courierID := range active {
		offer := entities.DispatchOffer{
			OrderID:   o.ID,
			CourierID: courierID,
			IssuedAt:  now,
			ExpiresAt: now.Add(d.offerTTL),
		}
		if !d.store.Put(offer) {
			continue
		}
		issued = append(issued, offer)
		d.push(courierID, entities.NewOfferEvent(offer, snapshot, now))
	}
	OffersIssuedTotal.Add(float64(len(issued)))

	if len(issued) == 0 {
		return 0, nil
	}

	// заказ могли взять, пока шла рассылка: тогда RetractOthers уже отработал
	// и новые офферы повиснут без владельца
	current, err := d.orders.GetOrder(ctx, o.ID)
	if err != nil || current.Status != entities.OrderPending {
		d.retractOrder(o.ID, 0, reasonOrphaned)
		if err != nil && !errors.Is(err, order.ErrOrderNotFound) {
			return 0, fmt.Errorf("recheck order %s: %w", o.ID, err)
		}
		return 0, nil
	}

	// смену могли закончить или поставить на паузу между FilterActive и Put:
	// RetractCourier тогда уже отработал и оффер неактивному курьеру никто не снимет
	dropped, err := d.dropInactive(ctx, o.ID, issued)
	if err != nil {
		return 0, fmt.Errorf("recheck sessions for order %s: %w", o.ID, err)
	}

	d.log.Debug("order broadcast",
		logger.NewField("order_id", o.ID),
		logger.NewField("offers", len(issued)-dropped),
	)
	return len(issued) - dropped, nil
}

// dropInactive снимает только что выданные офферы курьеров, чья смена уже не активна.
// Если сессии перепроверить не удалось, снимаются все выданные офферы: их заново
// раздаст периодическая рассылка.
func (d *Dispatch) dropInactive(ctx context.Context, orderID string, issued []entities.DispatchOffer) (int, error) {
	courierIDs := make([]int64, 0, len(issued))
	for _, offer := range issued {
		courierIDs = append(courierIDs, offer.CourierID)
	}

	stillActive := make(map[int64]struct{}, len(courierIDs))
	active, err := d.sessions.FilterActive(ctx, courierIDs)
	if err == nil {
		for _, courierID := range active {
			stillActive[courierID] = struct{}{}
		}
	}

	now := d.now()
	dropped := 0
	for _, offer := range issued {
		if _, ok := stillActive[offer.CourierID]; ok {
			continue
		}
		if _, ok := d.store.Delete(orderID, offer.CourierID); !ok {
			continue
		}
		dropped++
		d.push(offer.CourierID, entities.NewRetractedEvent(orderID, now))
	}
	if dropped > 0 {
		OffersRemovedTotal.WithLabelValues(reasonSession).Add(float64(dropped))
	}

	return dropped, err
}

// RetractOthers снимает все офферы заказа после того, как его взял winnerID.
func (d *Dispatch) RetractOthers(_ context.Context, orderID string, winnerID int64) {
	d.retractOrder(orderID, winnerID, reasonAccepted)
}

// Withdraw снимает оффер одного курьера и запоминает отказ.
func (d *Dispatch) Withdraw(_ context.Context, orderID string, courierID int64) {
	if _, ok := d.store.Reject(orderID, courierID); ok {
		OffersRemovedTotal.WithLabelValues(reasonRejected).Inc()
	}
}

// RetractCourier снимает все офферы курьера при паузе или конце смены.
func (d *Dispatch) RetractCourier(_ context.Context, courierID int64) {
	removed := d.store.DeleteCourier(courierID)
	if len(removed) == 0 {
		return
	}

	now := d.now()
	for _, offer := range removed {
		d.push(courierID, entities.NewRetractedEvent(offer.OrderID, now))
	}
	OffersRemovedTotal.WithLabelValues(reasonSession).Add(float64(len(removed)))
}

// ListAvailable живые офферы курьера со снимком заказа. Офферы заказов,
// которые уже не pending, по дороге вычищаются.
func (d *Dispatch) ListAvailable(ctx context.Context, courierID int64) ([]entities.AvailableOffer, error) {
	now := d.now()
	offers := d.store.ListByCourier(courierID)

	result := make([]entities.AvailableOffer, 0, len(offers))
	for _, offer := range offers {
		if offer.Expired(now) {
			continue
		}

		o, err := d.orders.GetOrder(ctx, offer.OrderID)
		if err != nil {
			if errors.Is(err, order.ErrOrderNotFound) {
				d.retractOrder(offer.OrderID, courierID, reasonOrphaned)
				continue
			}
			return nil, fmt.Errorf("get order %s: %w", offer.OrderID, err)
		}
		if o.Status != entities.OrderPending {
			d.retractOrder(offer.OrderID, courierID, reasonOrphaned)
			continue
		}

		result = append(result, entities.AvailableOffer{
			Offer: offer,
			Order: o.Snapshot(),
		})
	}
	return result, nil
}

// Redeliver повторно пушит живые офферы курьеру, вызывается при (пере)подключении канала.
func (d *Dispatch) Redeliver(ctx context.Context, courierID int64) {
	available, err := d.ListAvailable(ctx, courierID)
	if err != nil {
		d.log.Warn("failed to redeliver offers",
			logger.NewField("courier_id", courierID),
			logger.NewField("error", err),
		)
		return
	}

	now := d.now()
	for _, a := range available {
		d.push(courierID, entities.NewOfferEvent(a.Offer, a.Order, now))
	}
}

// ExpireOffers молча снимает офферы с истёкшим сроком.
func (d *Dispatch) ExpireOffers(_ context.Context) int {
	removed := d.store.DeleteExpired(d.now())
	if len(removed) > 0 {
		OffersRemovedTotal.WithLabelValues(reasonExpired).Add(float64(len(removed)))
		d.log.Debug("offers expired", logger.NewField("count", len(removed)))
	}
	return len(removed)
}

// RebroadcastPending повторная рассылка всех pending-заказов: так заказ находят
// курьеры, начавшие смену позже, и те, у кого оффер истёк.
func (d *Dispatch) RebroadcastPending(ctx context.Context) (int, error) {
	pending, err := d.orders.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pending orders: %w", err)
	}

	var (
		issued int
		errs   []error
	)
	for i := range pending {
		if err := ctx.Err(); err != nil {
			return issued, err
		}
		n, err := d.Broadcast(ctx, &pending[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		issued += n
	}
	return issued, errors.Join(errs...)
}

func (d *Dispatch) OffersCount() int {
	return d.store.Len()
}

func (d *Dispatch) retractOrder(orderID string, keep int64, reason string) {
	removed := d.store.DeleteOrder(orderID)
	if len(removed) == 0 {
		return
	}

	now := d.now()
	for _, offer := range removed {
		if offer.CourierID == keep {
			continue
		}
		d.push(offer.CourierID, entities.NewRetractedEvent(orderID, now))
	}
	OffersRemovedTotal.WithLabelValues(reason).Add(float64(len(removed)))
}

func (d *Dispatch) push(courierID int64, event entities.PushEvent) {
	if !d.pusher.Push(courierID, event) {
		d.log.Debug("push not delivered",
			logger.NewField("courier_id", courierID),
			logger.NewField("type", event.Type),
		)
	}
}
