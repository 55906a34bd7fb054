package entities

import "time"

type PushEventType string

const (
	PushOffer           PushEventType = "offer"
	PushOfferRetracted  PushEventType = "offer_retracted"
	PushConnectionState PushEventType = "connection_state"
)

type ConnectionStatus string

const (
	ConnectionConnected    ConnectionStatus = "connected"
	ConnectionReconnecting ConnectionStatus = "reconnecting"
	ConnectionDisconnected ConnectionStatus = "disconnected"
)

type ConnectionState struct {
	Status      ConnectionStatus `json:"status"`
	Attempt     uint64           `json:"attempt,omitempty"`
	MaxAttempts uint64           `json:"max_attempts,omitempty"`
}

// PushEvent то, что уходит курьеру по каналу.
type PushEvent struct {
	Type       PushEventType    `json:"type"`
	Order      *OrderSnapshot   `json:"order,omitempty"`
	OrderID    string           `json:"order_id,omitempty"`
	ExpiresAt  *time.Time       `json:"expires_at,omitempty"`
	Connection *ConnectionState `json:"connection,omitempty"`
	SentAt     time.Time        `json:"sent_at"`
}

func NewOfferEvent(offer DispatchOffer, order OrderSnapshot, now time.Time) PushEvent {
	expiresAt := offer.ExpiresAt
	return PushEvent{
		Type:      PushOffer,
		Order:     &order,
		OrderID:   offer.OrderID,
		ExpiresAt: &expiresAt,
		SentAt:    now,
	}
}

func NewRetractedEvent(orderID string, now time.Time) PushEvent {
	return PushEvent{
		Type:    PushOfferRetracted,
		OrderID: orderID,
		SentAt:  now,
	}
}

func NewConnectionEvent(state ConnectionState, now time.Time) PushEvent {
	return PushEvent{
		Type:       PushConnectionState,
		Connection: &state,
		SentAt:     now,
	}
}
