package order

import "time"

type OrderDB struct {
	ID             string
	Number         string
	Status         string
	CourierID      *int64
	Type           string
	ProviderID     int64
	ClientID       int64
	Pickups        []byte
	PaymentMode    *string
	Total          string
	CourierPayouts []byte
	PlatformShare  string
	CreatedAt      time.Time
	AcceptedAt     *time.Time
	CollectedAt    *time.Time
	DepartedAt     *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	UpdatedAt      time.Time
	Version        int64
}

type PickupDB struct {
	ProviderID  int64   `json:"provider_id"`
	PaymentMode *string `json:"payment_mode,omitempty"`
}
