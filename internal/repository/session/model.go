package session

import "time"

type SessionDB struct {
	CourierID     int64
	State         string
	StartedAt     *time.Time
	CodeHash      string
	CodeRotatedAt time.Time
	UpdatedAt     time.Time
}
