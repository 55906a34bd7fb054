package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusChanged событие для выплат и комиссий: уходит наружу после каждого применённого перехода.
type OrderStatusChanged struct {
	OrderID       string          `json:"order_id"`
	Number        string          `json:"number"`
	Type          OrderType       `json:"type"`
	Action        OrderAction     `json:"action"`
	From          OrderStatusType `json:"from"`
	To            OrderStatusType `json:"to"`
	CourierID     *int64          `json:"courier_id,omitempty"`
	PaymentModes  []PaymentMode   `json:"payment_modes,omitempty"`
	Total         decimal.Decimal `json:"total"`
	CourierPayout decimal.Decimal `json:"courier_payout"`
	PlatformShare decimal.Decimal `json:"platform_share"`
	Version       int64           `json:"version"`
	ChangedAt     time.Time       `json:"changed_at"`
}

func NewOrderStatusChanged(o *Order, action OrderAction, from OrderStatusType) OrderStatusChanged {
	var modes []PaymentMode
	if o.PaymentMode != nil {
		modes = append(modes, *o.PaymentMode)
	}
	for _, p := range o.Pickups {
		if p.PaymentMode != nil {
			modes = append(modes, *p.PaymentMode)
		}
	}

	return OrderStatusChanged{
		OrderID:       o.ID,
		Number:        o.Number,
		Type:          o.Type,
		Action:        action,
		From:          from,
		To:            o.Status,
		CourierID:     o.CourierID,
		PaymentModes:  modes,
		Total:         o.Total,
		CourierPayout: o.CourierPayout(),
		PlatformShare: o.PlatformShare,
		Version:       o.Version,
		ChangedAt:     o.UpdatedAt,
	}
}
