package entities

import (
	"errors"
	"fmt"
)

type PaymentMode string

const (
	PaymentCash    PaymentMode = "cash"
	PaymentInvoice PaymentMode = "invoice"
)

func (m PaymentMode) String() string {
	return string(m)
}

func (m PaymentMode) IsValid() bool {
	return m == PaymentCash || m == PaymentInvoice
}

var ErrPaymentSelection = errors.New("payment selection does not match order")

// PaymentSelection способ оплаты, переданный курьером при collect:
// UngroupedPayment для обычного заказа, GroupedPayment - по одному на каждый забор.
type PaymentSelection interface {
	Validate(order *Order) error
	applyTo(order *Order)
}

type UngroupedPayment struct {
	Mode PaymentMode
}

func (p UngroupedPayment) Validate(order *Order) error {
	if order.IsGrouped() {
		return fmt.Errorf("%w: order has %d pickups, got single mode", ErrPaymentSelection, len(order.Pickups))
	}
	if !p.Mode.IsValid() {
		return fmt.Errorf("%w: unknown payment mode %q", ErrPaymentSelection, p.Mode)
	}
	return nil
}

func (p UngroupedPayment) applyTo(order *Order) {
	mode := p.Mode
	order.PaymentMode = &mode
}

type GroupedPayment struct {
	PerPickup []PaymentMode
}

func (p GroupedPayment) Validate(order *Order) error {
	if !order.IsGrouped() {
		return fmt.Errorf("%w: order is not grouped, got %d modes", ErrPaymentSelection, len(p.PerPickup))
	}
	if len(p.PerPickup) != len(order.Pickups) {
		return fmt.Errorf("%w: %d pickups, got %d modes", ErrPaymentSelection, len(order.Pickups), len(p.PerPickup))
	}
	for i, mode := range p.PerPickup {
		if !mode.IsValid() {
			return fmt.Errorf("%w: pickup %d: unknown payment mode %q", ErrPaymentSelection, i, mode)
		}
	}
	return nil
}

func (p GroupedPayment) applyTo(order *Order) {
	pickups := make([]Pickup, len(order.Pickups))
	copy(pickups, order.Pickups)
	for i := range pickups {
		mode := p.PerPickup[i]
		pickups[i].PaymentMode = &mode
	}
	order.Pickups = pickups
}
