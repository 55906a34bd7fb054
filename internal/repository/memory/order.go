package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"courier-dispatch/internal/entities"
	"courier-dispatch/internal/service/order"

	"github.com/shopspring/decimal"
)

// Orders хранилище заказов в памяти. Все условные обновления выполняются
// под одним мьютексом, поэтому проверка и запись атомарны.
type Orders struct {
	mu     sync.RWMutex
	orders map[string]entities.Order
}

func NewOrders() *Orders {
	return &Orders{
		orders: make(map[string]entities.Order),
	}
}

func (r *Orders) Create(_ context.Context, o entities.Order) (*entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[o.ID]; ok {
		return nil, order.ErrOrderExists
	}
	for _, existing := range r.orders {
		if existing.Number == o.Number {
			return nil, order.ErrOrderExists
		}
	}

	r.orders[o.ID] = cloneOrder(o)
	result := cloneOrder(o)
	return &result, nil
}

func (r *Orders) GetByID(_ context.Context, id string) (*entities.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	result := cloneOrder(o)
	return &result, nil
}

func (r *Orders) ListByCourier(_ context.Context, courierID int64) ([]entities.Order, error) {
	return r.list(func(o entities.Order) bool {
		return o.AssignedTo(courierID)
	}), nil
}

func (r *Orders) ListByStatus(_ context.Context, status entities.OrderStatusType) ([]entities.Order, error) {
	return r.list(func(o entities.Order) bool {
		return o.Status == status
	}), nil
}

func (r *Orders) UpdateConditional(_ context.Context, o entities.Order, t entities.OrderTransition) (*entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.orders[o.ID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	if current.Status != t.ExpectedStatus ||
		current.Version != t.ExpectedVersion ||
		!current.AssignedTo(t.CourierID) {
		return nil, order.ErrStaleOrder
	}

	r.orders[o.ID] = cloneOrder(o)
	result := cloneOrder(o)
	return &result, nil
}

// Accept compare-and-swap pending -> accepted. Выигрывает ровно один вызов.
func (r *Orders) Accept(_ context.Context, orderID string, courierID int64, at time.Time) (*entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.orders[orderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	if current.Status != entities.OrderPending || current.CourierID != nil {
		return nil, order.ErrAlreadyTaken
	}

	next := cloneOrder(current)
	next.Apply(entities.OrderTransition{
		OrderID:         orderID,
		CourierID:       courierID,
		Action:          entities.ActionAccept,
		ExpectedStatus:  entities.OrderPending,
		ExpectedVersion: current.Version,
		NextStatus:      entities.OrderAccepted,
		At:              at,
	})

	r.orders[orderID] = next
	result := cloneOrder(next)
	return &result, nil
}

func (r *Orders) list(match func(o entities.Order) bool) []entities.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entities.Order, 0)
	for _, o := range r.orders {
		if match(o) {
			result = append(result, cloneOrder(o))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func cloneOrder(o entities.Order) entities.Order {
	if o.Pickups != nil {
		pickups := make([]entities.Pickup, len(o.Pickups))
		copy(pickups, o.Pickups)
		o.Pickups = pickups
	}
	if o.CourierPayouts != nil {
		payouts := make(map[entities.OrderType]decimal.Decimal, len(o.CourierPayouts))
		for k, v := range o.CourierPayouts {
			payouts[k] = v
		}
		o.CourierPayouts = payouts
	}
	return o
}
