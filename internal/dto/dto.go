// Package dto тела запросов и ответов HTTP API и сообщений Kafka.
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type PingResponse struct {
	Message           *string `json:"message,omitempty"`
	ConnectedCouriers int     `json:"connected_couriers"`
	LiveOffers        int     `json:"live_offers"`
}

type StartSessionRequest struct {
	Code string `json:"code"`
}

type SessionResponse struct {
	CourierID     int64      `json:"courier_id"`
	State         string     `json:"state"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CodeRotatedAt *time.Time `json:"code_rotated_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CodeResponse struct {
	CourierID int64     `json:"courier_id"`
	Code      string    `json:"code"`
	RotatedAt time.Time `json:"rotated_at"`
}

// OrderActionRequest тело для collect и deliver. Для collect нужен ровно один
// из payment_mode (обычный заказ) и payment_modes (группированный).
type OrderActionRequest struct {
	Code         string   `json:"code,omitempty"`
	PaymentMode  *string  `json:"payment_mode,omitempty"`
	PaymentModes []string `json:"payment_modes,omitempty"`
}

type PickupResponse struct {
	ProviderID  int64   `json:"provider_id"`
	PaymentMode *string `json:"payment_mode,omitempty"`
}

type OrderResponse struct {
	ID            string           `json:"id"`
	Number        string           `json:"number"`
	Status        string           `json:"status"`
	Type          string           `json:"type"`
	CourierID     *int64           `json:"courier_id,omitempty"`
	ProviderID    int64            `json:"provider_id,omitempty"`
	ClientID      int64            `json:"client_id"`
	Pickups       []PickupResponse `json:"pickups,omitempty"`
	PaymentMode   *string          `json:"payment_mode,omitempty"`
	Total         decimal.Decimal  `json:"total"`
	CourierPayout decimal.Decimal  `json:"courier_payout"`
	PlatformShare decimal.Decimal  `json:"platform_share"`
	CreatedAt     time.Time        `json:"created_at"`
	AcceptedAt    *time.Time       `json:"accepted_at,omitempty"`
	CollectedAt   *time.Time       `json:"collected_at,omitempty"`
	DepartedAt    *time.Time       `json:"departed_at,omitempty"`
	DeliveredAt   *time.Time       `json:"delivered_at,omitempty"`
	CancelledAt   *time.Time       `json:"cancelled_at,omitempty"`
	Version       int64            `json:"version"`
}

type OfferResponse struct {
	OrderID    string          `json:"order_id"`
	Number     string          `json:"number"`
	Type       string          `json:"type"`
	ProviderID int64           `json:"provider_id,omitempty"`
	ClientID   int64           `json:"client_id"`
	PickupFrom []int64         `json:"pickup_from,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Payout     decimal.Decimal `json:"payout"`
	IssuedAt   time.Time       `json:"issued_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
}

// PlaceOrderRequest заказ от вышестоящей системы: POST /admin/orders и топик orders.placed.
type PlaceOrderRequest struct {
	ID             string                     `json:"id,omitempty"`
	Number         string                     `json:"number,omitempty"`
	Type           string                     `json:"type"`
	ProviderID     int64                      `json:"provider_id,omitempty"`
	ClientID       int64                      `json:"client_id"`
	PickupFrom     []int64                    `json:"pickup_from,omitempty"`
	Total          decimal.Decimal            `json:"total"`
	CourierPayouts map[string]decimal.Decimal `json:"courier_payouts,omitempty"`
	PlatformShare  decimal.Decimal            `json:"platform_share"`
}
