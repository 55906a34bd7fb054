package order

import (
	"encoding/json"
	"fmt"

	"courier-dispatch/internal/entities"

	"github.com/shopspring/decimal"
)

func ToDomain(o *OrderDB) (*entities.Order, error) {
	if o == nil {
		return nil, nil
	}

	total, err := decimal.NewFromString(o.Total)
	if err != nil {
		return nil, fmt.Errorf("order %s total: %w", o.ID, err)
	}
	platformShare, err := decimal.NewFromString(o.PlatformShare)
	if err != nil {
		return nil, fmt.Errorf("order %s platform share: %w", o.ID, err)
	}

	var pickupsDB []PickupDB
	if len(o.Pickups) > 0 {
		if err := json.Unmarshal(o.Pickups, &pickupsDB); err != nil {
			return nil, fmt.Errorf("order %s pickups: %w", o.ID, err)
		}
	}
	var pickups []entities.Pickup
	for _, p := range pickupsDB {
		pickup := entities.Pickup{ProviderID: p.ProviderID}
		if p.PaymentMode != nil {
			mode := entities.PaymentMode(*p.PaymentMode)
			pickup.PaymentMode = &mode
		}
		pickups = append(pickups, pickup)
	}

	var payoutsDB map[string]string
	if len(o.CourierPayouts) > 0 {
		if err := json.Unmarshal(o.CourierPayouts, &payoutsDB); err != nil {
			return nil, fmt.Errorf("order %s payouts: %w", o.ID, err)
		}
	}
	payouts := make(map[entities.OrderType]decimal.Decimal, len(payoutsDB))
	for t, v := range payoutsDB {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("order %s payout %s: %w", o.ID, t, err)
		}
		payouts[entities.OrderType(t)] = amount
	}

	var paymentMode *entities.PaymentMode
	if o.PaymentMode != nil {
		mode := entities.PaymentMode(*o.PaymentMode)
		paymentMode = &mode
	}

	return &entities.Order{
		ID:             o.ID,
		Number:         o.Number,
		Status:         entities.OrderStatusType(o.Status),
		CourierID:      o.CourierID,
		Type:           entities.OrderType(o.Type),
		Pickups:        pickups,
		ProviderID:     o.ProviderID,
		ClientID:       o.ClientID,
		PaymentMode:    paymentMode,
		Total:          total,
		CourierPayouts: payouts,
		PlatformShare:  platformShare,
		CreatedAt:      o.CreatedAt,
		AcceptedAt:     o.AcceptedAt,
		CollectedAt:    o.CollectedAt,
		DepartedAt:     o.DepartedAt,
		DeliveredAt:    o.DeliveredAt,
		CancelledAt:    o.CancelledAt,
		UpdatedAt:      o.UpdatedAt,
		Version:        o.Version,
	}, nil
}

func FromDomain(o *entities.Order) (*OrderDB, error) {
	if o == nil {
		return nil, nil
	}

	pickupsDB := make([]PickupDB, 0, len(o.Pickups))
	for _, p := range o.Pickups {
		pickup := PickupDB{ProviderID: p.ProviderID}
		if p.PaymentMode != nil {
			mode := p.PaymentMode.String()
			pickup.PaymentMode = &mode
		}
		pickupsDB = append(pickupsDB, pickup)
	}
	pickups, err := json.Marshal(pickupsDB)
	if err != nil {
		return nil, fmt.Errorf("order %s pickups: %w", o.ID, err)
	}

	payoutsDB := make(map[string]string, len(o.CourierPayouts))
	for t, v := range o.CourierPayouts {
		payoutsDB[t.String()] = v.String()
	}
	payouts, err := json.Marshal(payoutsDB)
	if err != nil {
		return nil, fmt.Errorf("order %s payouts: %w", o.ID, err)
	}

	var paymentMode *string
	if o.PaymentMode != nil {
		mode := o.PaymentMode.String()
		paymentMode = &mode
	}

	return &OrderDB{
		ID:             o.ID,
		Number:         o.Number,
		Status:         o.Status.String(),
		CourierID:      o.CourierID,
		Type:           o.Type.String(),
		ProviderID:     o.ProviderID,
		ClientID:       o.ClientID,
		Pickups:        pickups,
		PaymentMode:    paymentMode,
		Total:          o.Total.String(),
		CourierPayouts: payouts,
		PlatformShare:  o.PlatformShare.String(),
		CreatedAt:      o.CreatedAt,
		AcceptedAt:     o.AcceptedAt,
		CollectedAt:    o.CollectedAt,
		DepartedAt:     o.DepartedAt,
		DeliveredAt:    o.DeliveredAt,
		CancelledAt:    o.CancelledAt,
		UpdatedAt:      o.UpdatedAt,
		Version:        o.Version,
	}, nil
}

func ToDomainList(ordersDB []OrderDB) ([]entities.Order, error) {
	result := make([]entities.Order, 0, len(ordersDB))
	for i := range ordersDB {
		o, err := ToDomain(&ordersDB[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	return result, nil
}
