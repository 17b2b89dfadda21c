package models

// PaymentStatus tracks manual payment verification on an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentApproved, PaymentRejected:
		return true
	}
	return false
}

// DeliveryStatus tracks fulfilment progress on an order.
type DeliveryStatus string

const (
	DeliveryPending    DeliveryStatus = "pending"
	DeliveryProcessing DeliveryStatus = "processing"
	DeliveryShipped    DeliveryStatus = "shipped"
	DeliveryDelivered  DeliveryStatus = "delivered"
	DeliveryCancelled  DeliveryStatus = "cancelled"
)

// Valid reports whether s is a known delivery status.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryPending, DeliveryProcessing, DeliveryShipped, DeliveryDelivered, DeliveryCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s DeliveryStatus) Terminal() bool {
	return s == DeliveryDelivered || s == DeliveryCancelled
}

// deliveryOrder gives the forward progression rank of each non-cancelled status.
var deliveryOrder = map[DeliveryStatus]int{
	DeliveryPending:    0,
	DeliveryProcessing: 1,
	DeliveryShipped:    2,
	DeliveryDelivered:  3,
}

// CanTransition reports whether an order may move from s to next.
// Fulfilment only moves forward one step at a time; cancellation is
// allowed from any non-terminal state.
func (s DeliveryStatus) CanTransition(next DeliveryStatus) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	if next == DeliveryCancelled {
		return true
	}
	return deliveryOrder[next] == deliveryOrder[s]+1
}
