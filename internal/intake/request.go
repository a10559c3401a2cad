package intake

import (
	"github.com/angelmondragon/ordering-backend/internal/pricing"
	"github.com/angelmondragon/ordering-backend/pkg/enums"
	"github.com/google/uuid"
)

// Request is a public order submission after transport decoding.
type Request struct {
	BranchID      uuid.UUID
	ServiceType   string
	PaymentMethod string
	Customer      CustomerInput
	// CustomerID is set when the caller presented a valid customer token.
	CustomerID *uuid.UUID
	Delivery   *DeliveryInput
	Lines      []pricing.Line
	Notes      string
}

// CustomerInput is the contact data typed by the customer.
type CustomerInput struct {
	Name  string
	Phone string
	Email string
}

// DeliveryInput locates a delivery order. Coordinates take precedence over the
// zone; EstimateCents is the amount the client displayed, used only as fallback.
type DeliveryInput struct {
	Address       string
	Lat           *float64
	Lng           *float64
	ZoneID        *uuid.UUID
	EstimateCents *int64
}

// Result is returned to the caller once the order is stored.
type Result struct {
	OrderID          uuid.UUID         `json:"order_id"`
	TrackingCode     string            `json:"tracking_code"`
	OrderNumber      int64             `json:"order_number"`
	Status           enums.OrderStatus `json:"status"`
	EstimatedMinutes int               `json:"estimated_minutes"`
}
