package offer

import (
	"sort"
	"sync"
	"time"

	"courier-dispatch/internal/entities"
)

// Store живые офферы и отказы курьеров. Офферы не переживают рестарт процесса:
// после старта их заново раздаёт периодическая рассылка pending-заказов.
type Store struct {
	mu       sync.Mutex
	offers   map[string]map[int64]entities.DispatchOffer
	rejected map[string]map[int64]struct{}
}

func New() *Store {
	return &Store{
		offers:   make(map[string]map[int64]entities.DispatchOffer),
		rejected: make(map[string]map[int64]struct{}),
	}
}

// Put сохраняет оффер, если у курьера ещё нет живого оффера на этот заказ
// и он от заказа не отказывался.
func (s *Store) Put(o entities.DispatchOffer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rejected[o.OrderID][o.CourierID]; ok {
		return false
	}
	byCourier, ok := s.offers[o.OrderID]
	if !ok {
		byCourier = make(map[int64]entities.DispatchOffer)
		s.offers[o.OrderID] = byCourier
	}
	if _, ok := byCourier[o.CourierID]; ok {
		return false
	}
	byCourier[o.CourierID] = o
	return true
}

// Delete снимает один оффер, не запоминая отказа.
func (s *Store) Delete(orderID string, courierID int64) (entities.DispatchOffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteLocked(orderID, courierID)
}

// Reject снимает оффер курьера и запоминает отказ до конца жизни заказа.
func (s *Store) Reject(orderID string, courierID int64) (entities.DispatchOffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rejected, ok := s.rejected[orderID]
	if !ok {
		rejected = make(map[int64]struct{})
		s.rejected[orderID] = rejected
	}
	rejected[courierID] = struct{}{}

	return s.deleteLocked(orderID, courierID)
}

// DeleteOrder снимает все офферы заказа и забывает его историю.
func (s *Store) DeleteOrder(orderID string) []entities.DispatchOffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make([]entities.DispatchOffer, 0, len(s.offers[orderID]))
	for _, o := range s.offers[orderID] {
		removed = append(removed, o)
	}
	delete(s.offers, orderID)
	delete(s.rejected, orderID)

	sortOffers(removed)
	return removed
}

// DeleteCourier снимает все живые офферы курьера. Отказы остаются.
func (s *Store) DeleteCourier(courierID int64) []entities.DispatchOffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make([]entities.DispatchOffer, 0)
	for orderID := range s.offers {
		if o, ok := s.deleteLocked(orderID, courierID); ok {
			removed = append(removed, o)
		}
	}

	sortOffers(removed)
	return removed
}

// DeleteExpired снимает офферы с истёкшим сроком. Курьер сможет получить
// заказ снова при следующей рассылке.
func (s *Store) DeleteExpired(now time.Time) []entities.DispatchOffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make([]entities.DispatchOffer, 0)
	for orderID, byCourier := range s.offers {
		for courierID, o := range byCourier {
			if o.Expired(now) {
				removed = append(removed, o)
				s.deleteLocked(orderID, courierID)
			}
		}
	}

	sortOffers(removed)
	return removed
}

func (s *Store) ListByCourier(courierID int64) []entities.DispatchOffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]entities.DispatchOffer, 0)
	for _, byCourier := range s.offers {
		if o, ok := byCourier[courierID]; ok {
			result = append(result, o)
		}
	}

	sortOffers(result)
	return result
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, byCourier := range s.offers {
		n += len(byCourier)
	}
	return n
}

func (s *Store) deleteLocked(orderID string, courierID int64) (entities.DispatchOffer, bool) {
	byCourier, ok := s.offers[orderID]
	if !ok {
		return entities.DispatchOffer{}, false
	}
	o, ok := byCourier[courierID]
	if !ok {
		return entities.DispatchOffer{}, false
	}
	delete(byCourier, courierID)
	if len(byCourier) == 0 {
		delete(s.offers, orderID)
	}
	return o, true
}

func sortOffers(offers []entities.DispatchOffer) {
	sort.Slice(offers, func(i, j int) bool {
		if offers[i].IssuedAt.Equal(offers[j].IssuedAt) {
			if offers[i].OrderID == offers[j].OrderID {
				return offers[i].CourierID < offers[j].CourierID
			}
			return offers[i].OrderID < offers[j].OrderID
		}
		return offers[i].IssuedAt.Before(offers[j].IssuedAt)
	})
}
