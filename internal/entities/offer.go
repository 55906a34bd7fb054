package entities

import "time"

// DispatchOffer курьер сейчас видит заказ как доступный. Живёт только в памяти.
type DispatchOffer struct {
	OrderID   string
	CourierID int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (o DispatchOffer) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

type AvailableOffer struct {
	Offer DispatchOffer
	Order OrderSnapshot
}
