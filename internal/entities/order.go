package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID         string
	Number     string
	Status     OrderStatusType
	CourierID  *int64
	Type       OrderType
	Pickups    []Pickup
	ProviderID int64
	ClientID   int64

	// для негруппированного заказа, заполняется при collect
	PaymentMode *PaymentMode

	Total          decimal.Decimal
	CourierPayouts map[OrderType]decimal.Decimal
	PlatformShare  decimal.Decimal

	CreatedAt   time.Time
	AcceptedAt  *time.Time
	CollectedAt *time.Time
	DepartedAt  *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time
	UpdatedAt   time.Time

	Version int64
}

type Pickup struct {
	ProviderID  int64
	PaymentMode *PaymentMode
}

type OrderStatusType string

const (
	OrderPending    OrderStatusType = "pending"
	OrderAccepted   OrderStatusType = "accepted"
	OrderCollected  OrderStatusType = "collected"
	OrderInDelivery OrderStatusType = "in_delivery"
	OrderDelivered  OrderStatusType = "delivered"
	OrderCancelled  OrderStatusType = "cancelled"
)

func (s OrderStatusType) String() string {
	return string(s)
}

func (s OrderStatusType) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

func (s OrderStatusType) IsValid() bool {
	switch s {
	case OrderPending, OrderAccepted, OrderCollected, OrderInDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// ActiveOrderStatuses статусы, в которых заказ закреплён за курьером и ещё не закрыт.
var ActiveOrderStatuses = []OrderStatusType{OrderAccepted, OrderCollected, OrderInDelivery}

type OrderType string

const (
	OrderSingle        OrderType = "single"
	OrderDualGrouped   OrderType = "dual_grouped"
	OrderTripleGrouped OrderType = "triple_grouped"
	OrderFlagged       OrderType = "flagged"
)

func (t OrderType) String() string {
	return string(t)
}

// PickupCount сколько забора у поставщиков объединено в заказе, 0 - не группированный.
func (t OrderType) PickupCount() (int, bool) {
	switch t {
	case OrderSingle, OrderFlagged:
		return 0, true
	case OrderDualGrouped:
		return 2, true
	case OrderTripleGrouped:
		return 3, true
	}
	return 0, false
}

func (o *Order) IsGrouped() bool {
	return len(o.Pickups) > 0
}

func (o *Order) AssignedTo(courierID int64) bool {
	return o.CourierID != nil && *o.CourierID == courierID
}

// CourierPayout выплата курьеру для типа этого заказа.
func (o *Order) CourierPayout() decimal.Decimal {
	if o.CourierPayouts == nil {
		return decimal.Zero
	}
	return o.CourierPayouts[o.Type]
}

// Snapshot урезанная копия для пуша курьерам.
func (o *Order) Snapshot() OrderSnapshot {
	providers := make([]int64, 0, len(o.Pickups))
	for _, p := range o.Pickups {
		providers = append(providers, p.ProviderID)
	}
	return OrderSnapshot{
		ID:         o.ID,
		Number:     o.Number,
		Status:     o.Status,
		Type:       o.Type,
		ProviderID: o.ProviderID,
		ClientID:   o.ClientID,
		PickupFrom: providers,
		Total:      o.Total,
		Payout:     o.CourierPayout(),
		CreatedAt:  o.CreatedAt,
	}
}

type OrderSnapshot struct {
	ID         string          `json:"id"`
	Number     string          `json:"number"`
	Status     OrderStatusType `json:"status"`
	Type       OrderType       `json:"type"`
	ProviderID int64           `json:"provider_id"`
	ClientID   int64           `json:"client_id"`
	PickupFrom []int64         `json:"pickup_from,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Payout     decimal.Decimal `json:"payout"`
	CreatedAt  time.Time       `json:"created_at"`
}
