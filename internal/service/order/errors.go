package order

import "errors"

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderExists         = errors.New("order already exists")
	ErrInvalidOrder        = errors.New("invalid order")
	ErrInvalidOrderID      = errors.New("invalid order id")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrNotAssignedCourier  = errors.New("order is not assigned to this courier")
	ErrPaymentModeMismatch = errors.New("payment mode mismatch")
	ErrAlreadyTaken        = errors.New("order already taken")

	// ErrStaleOrder условное обновление не нашло заказ в ожидаемом состоянии
	ErrStaleOrder = errors.New("order changed concurrently")
)
