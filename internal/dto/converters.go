package dto

import (
	"courier-dispatch/internal/entities"

	"github.com/shopspring/decimal"
)

func FromSession(s *entities.CourierSession) SessionResponse {
	res := SessionResponse{
		CourierID: s.CourierID,
		State:     s.State.String(),
		StartedAt: s.StartedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if !s.CodeRotatedAt.IsZero() {
		rotated := s.CodeRotatedAt
		res.CodeRotatedAt = &rotated
	}
	return res
}

func FromOrder(o *entities.Order) OrderResponse {
	res := OrderResponse{
		ID:            o.ID,
		Number:        o.Number,
		Status:        o.Status.String(),
		Type:          o.Type.String(),
		CourierID:     o.CourierID,
		ProviderID:    o.ProviderID,
		ClientID:      o.ClientID,
		PaymentMode:   modeString(o.PaymentMode),
		Total:         o.Total,
		CourierPayout: o.CourierPayout(),
		PlatformShare: o.PlatformShare,
		CreatedAt:     o.CreatedAt,
		AcceptedAt:    o.AcceptedAt,
		CollectedAt:   o.CollectedAt,
		DepartedAt:    o.DepartedAt,
		DeliveredAt:   o.DeliveredAt,
		CancelledAt:   o.CancelledAt,
		Version:       o.Version,
	}
	for _, p := range o.Pickups {
		res.Pickups = append(res.Pickups, PickupResponse{
			ProviderID:  p.ProviderID,
			PaymentMode: modeString(p.PaymentMode),
		})
	}
	return res
}

func FromOrders(orders []entities.Order) []OrderResponse {
	res := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, FromOrder(&orders[i]))
	}
	return res
}

func FromOffers(offers []entities.AvailableOffer) []OfferResponse {
	res := make([]OfferResponse, 0, len(offers))
	for _, o := range offers {
		res = append(res, OfferResponse{
			OrderID:    o.Order.ID,
			Number:     o.Order.Number,
			Type:       o.Order.Type.String(),
			ProviderID: o.Order.ProviderID,
			ClientID:   o.Order.ClientID,
			PickupFrom: o.Order.PickupFrom,
			Total:      o.Order.Total,
			Payout:     o.Order.Payout,
			IssuedAt:   o.Offer.IssuedAt,
			ExpiresAt:  o.Offer.ExpiresAt,
		})
	}
	return res
}

// ToDomain статус и курьер не переносятся: заказ всегда создаётся в pending.
func (r PlaceOrderRequest) ToDomain() entities.Order {
	o := entities.Order{
		ID:            r.ID,
		Number:        r.Number,
		Type:          entities.OrderType(r.Type),
		ProviderID:    r.ProviderID,
		ClientID:      r.ClientID,
		Total:         r.Total,
		PlatformShare: r.PlatformShare,
	}
	for _, providerID := range r.PickupFrom {
		o.Pickups = append(o.Pickups, entities.Pickup{ProviderID: providerID})
	}
	if len(r.CourierPayouts) > 0 {
		o.CourierPayouts = make(map[entities.OrderType]decimal.Decimal, len(r.CourierPayouts))
		for t, payout := range r.CourierPayouts {
			o.CourierPayouts[entities.OrderType(t)] = payout
		}
	}
	return o
}

// Payment nil, если способ оплаты не передан, тогда collect отклонит заказ.
func (r OrderActionRequest) Payment() entities.PaymentSelection {
	switch {
	case r.PaymentMode != nil && len(r.PaymentModes) == 0:
		return entities.UngroupedPayment{Mode: entities.PaymentMode(*r.PaymentMode)}
	case r.PaymentMode == nil && len(r.PaymentModes) > 0:
		modes := make([]entities.PaymentMode, 0, len(r.PaymentModes))
		for _, m := range r.PaymentModes {
			modes = append(modes, entities.PaymentMode(m))
		}
		return entities.GroupedPayment{PerPickup: modes}
	default:
		return nil
	}
}

func modeString(m *entities.PaymentMode) *string {
	if m == nil {
		return nil
	}
	s := m.String()
	return &s
}
