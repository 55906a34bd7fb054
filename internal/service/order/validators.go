package order

import (
	"fmt"

	"courier-dispatch/internal/entities"
)

func validateNewOrder(o entities.Order) error {
	if o.Status != entities.OrderPending {
		return fmt.Errorf("%w: status must be %s, got %q", ErrInvalidOrder, entities.OrderPending, o.Status)
	}
	if o.CourierID != nil {
		return fmt.Errorf("%w: new order must not have a courier", ErrInvalidOrder)
	}
	if o.ClientID <= 0 {
		return fmt.Errorf("%w: client id is required", ErrInvalidOrder)
	}
	if o.PaymentMode != nil {
		return fmt.Errorf("%w: payment mode is chosen at collect", ErrInvalidOrder)
	}

	pickups, ok := o.Type.PickupCount()
	if !ok {
		return fmt.Errorf("%w: unknown order type %q", ErrInvalidOrder, o.Type)
	}
	if len(o.Pickups) != pickups {
		return fmt.Errorf("%w: %s order expects %d pickups, got %d", ErrInvalidOrder, o.Type, pickups, len(o.Pickups))
	}
	if pickups == 0 && o.ProviderID <= 0 {
		return fmt.Errorf("%w: provider id is required", ErrInvalidOrder)
	}
	for i, p := range o.Pickups {
		if p.ProviderID <= 0 {
			return fmt.Errorf("%w: pickup %d: provider id is required", ErrInvalidOrder, i)
		}
		if p.PaymentMode != nil {
			return fmt.Errorf("%w: pickup %d: payment mode is chosen at collect", ErrInvalidOrder, i)
		}
	}

	if o.Total.IsNegative() || o.PlatformShare.IsNegative() {
		return fmt.Errorf("%w: negative amount", ErrInvalidOrder)
	}
	for t, payout := range o.CourierPayouts {
		if payout.IsNegative() {
			return fmt.Errorf("%w: negative payout for %s", ErrInvalidOrder, t)
		}
	}
	return nil
}

func isValidOrderID(id string) bool {
	return id != ""
}
