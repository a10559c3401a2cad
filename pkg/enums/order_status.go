package enums

import "fmt"

// OrderStatus tracks the lifecycle of an order.
type OrderStatus string

const (
	OrderStatusAwaitingPayment     OrderStatus = "awaiting_payment"
	OrderStatusPendingConfirmation OrderStatus = "pending_confirmation"
	OrderStatusInPreparation       OrderStatus = "in_preparation"
	OrderStatusReady               OrderStatus = "ready"
	OrderStatusOutForDelivery      OrderStatus = "out_for_delivery"
	OrderStatusCompleted           OrderStatus = "completed"
	OrderStatusCanceled            OrderStatus = "canceled"
)

var validOrderStatuss = []OrderStatus{
	OrderStatusAwaitingPayment,
	OrderStatusPendingConfirmation,
	OrderStatusInPreparation,
	OrderStatusReady,
	OrderStatusOutForDelivery,
	OrderStatusCompleted,
	OrderStatusCanceled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuss {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into a OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuss {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
