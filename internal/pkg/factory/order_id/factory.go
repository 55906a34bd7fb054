package order_id

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderIDFactory struct {
	now func() time.Time
}

func New() *OrderIDFactory {
	return &OrderIDFactory{
		now: time.Now,
	}
}

func (f *OrderIDFactory) NewOrderID() string {
	return uuid.NewString()
}

// NewOrderNumber номер для людей: дата и хвост uuid, например ORD-20260101-3F9A1C.
func (f *OrderIDFactory) NewOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "ORD-" + f.now().UTC().Format("20060102") + "-" + suffix
}
