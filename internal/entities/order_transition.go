package entities

import "time"

type OrderAction string

const (
	ActionAccept  OrderAction = "accept"
	ActionReject  OrderAction = "reject"
	ActionCollect OrderAction = "collect"
	ActionDepart  OrderAction = "depart"
	ActionDeliver OrderAction = "deliver"
	ActionCancel  OrderAction = "cancel"
)

func (a OrderAction) String() string {
	return string(a)
}

// Все остальные пары (статус, действие) запрещены.
var orderTransitions = map[OrderStatusType]map[OrderAction]OrderStatusType{
	OrderPending: {
		ActionAccept: OrderAccepted,
		ActionReject: OrderPending,
	},
	OrderAccepted: {
		ActionCollect: OrderCollected,
		ActionCancel:  OrderCancelled,
	},
	OrderCollected: {
		ActionDepart: OrderInDelivery,
	},
	OrderInDelivery: {
		ActionDeliver: OrderDelivered,
		ActionCancel:  OrderCancelled,
	},
}

// NextOrderStatus возвращает статус после действия и false, если переход запрещён.
func NextOrderStatus(from OrderStatusType, action OrderAction) (OrderStatusType, bool) {
	allowed, ok := orderTransitions[from]
	if !ok {
		return from, false
	}
	next, ok := allowed[action]
	if !ok {
		return from, false
	}
	return next, true
}

// OrderTransition применяемый переход, ExpectedStatus/ExpectedVersion - условие для conditional update.
type OrderTransition struct {
	OrderID         string
	CourierID       int64
	Action          OrderAction
	ExpectedStatus  OrderStatusType
	ExpectedVersion int64
	NextStatus      OrderStatusType
	Payment         PaymentSelection
	At              time.Time
}

// Apply меняет заказ на месте. Проверки допустимости делает вызывающий.
func (o *Order) Apply(t OrderTransition) {
	at := t.At
	o.Status = t.NextStatus
	o.UpdatedAt = at
	o.Version++

	switch t.NextStatus {
	case OrderAccepted:
		courierID := t.CourierID
		o.CourierID = &courierID
		o.AcceptedAt = &at
	case OrderCollected:
		o.CollectedAt = &at
		if t.Payment != nil {
			t.Payment.applyTo(o)
		}
	case OrderInDelivery:
		o.DepartedAt = &at
	case OrderDelivered:
		o.DeliveredAt = &at
	case OrderCancelled:
		o.CancelledAt = &at
	}
}
