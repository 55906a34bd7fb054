package session

import "errors"

var (
	ErrInvalidCourierID = errors.New("invalid courier id")
	ErrInvalidCode      = errors.New("invalid code")
	ErrCodeNotIssued    = errors.New("secret code not issued")

	ErrAlreadyActive    = errors.New("session already active")
	ErrSessionNotActive = errors.New("session not active")
	ErrSessionNotPaused = errors.New("session not paused")
	ErrSessionNotFound  = errors.New("session not found")

	// ErrStateConflict условное обновление не нашло строку в ожидаемом состоянии
	ErrStateConflict = errors.New("session state changed concurrently")
)
