package entities

import "time"

type CourierSession struct {
	CourierID     int64
	State         SessionState
	StartedAt     *time.Time
	CodeHash      string
	CodeRotatedAt time.Time
	UpdatedAt     time.Time
}

type SessionState string

const (
	SessionInactive SessionState = "inactive"
	SessionActive   SessionState = "active"
	SessionPaused   SessionState = "paused"
)

func (s SessionState) String() string {
	return string(s)
}

func (s *CourierSession) IsActive() bool {
	return s != nil && s.State == SessionActive
}

// SessionStateChange условное изменение состояния: применяется, только если текущее in From.
type SessionStateChange struct {
	CourierID int64
	From      []SessionState
	To        SessionState
	StartedAt *time.Time
	At        time.Time

	// если не пусто - изменение применяется только при совпадении хэша кода,
	// так старт с только что перевыпущенным кодом не пройдёт
	ExpectedCodeHash string
}
