package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/ordering-backend/pkg/enums"
)

// Order is the persisted aggregate root produced by the public intake.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	BranchID         uuid.UUID           `gorm:"column:branch_id;type:uuid;not null"`
	OrderNumber      int64               `gorm:"column:order_number;not null"`
	Status           enums.OrderStatus   `gorm:"column:status;type:text;not null"`
	PaymentMethod    enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	PaymentStatus    enums.PaymentStatus `gorm:"column:payment_status;type:text;not null"`
	ServiceType      enums.ServiceType   `gorm:"column:service_type;type:text;not null"`
	Channel          string              `gorm:"column:channel;not null"`
	SubtotalCents    int64               `gorm:"column:subtotal_cents;not null"`
	DeliveryFeeCents int64               `gorm:"column:delivery_fee_cents;not null"`
	TotalCents       int64               `gorm:"column:total_cents;not null"`
	DeliveryZoneID   *uuid.UUID          `gorm:"column:delivery_zone_id;type:uuid"`
	DeliveryDegraded bool                `gorm:"column:delivery_degraded;not null"`
	CustomerID       *uuid.UUID          `gorm:"column:customer_id;type:uuid"`
	CustomerName     string              `gorm:"column:customer_name;not null"`
	CustomerPhone    string              `gorm:"column:customer_phone;not null"`
	CustomerEmail    *string             `gorm:"column:customer_email"`
	DeliveryAddress  *string             `gorm:"column:delivery_address"`
	DeliveryLat      *float64            `gorm:"column:delivery_lat"`
	DeliveryLng      *float64            `gorm:"column:delivery_lng"`
	Notes            *string             `gorm:"column:notes"`
	TrackingCode     string              `gorm:"column:tracking_code;not null"`
	EstimatedMinutes int                 `gorm:"column:estimated_minutes;not null"`
	Lines            []OrderLine         `gorm:"foreignKey:OrderID"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
}

// OrderLine is the priced snapshot of one requested catalog item.
type OrderLine struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID         uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	ItemID          uuid.UUID           `gorm:"column:item_id;type:uuid;not null"`
	PromotionItemID *uuid.UUID          `gorm:"column:promotion_item_id;type:uuid"`
	Name            string              `gorm:"column:name;not null"`
	Category        string              `gorm:"column:category;not null"`
	Station         string              `gorm:"column:station;not null"`
	Quantity        int                 `gorm:"column:quantity;not null"`
	UnitPriceCents  int64               `gorm:"column:unit_price_cents;not null"`
	ExtrasCents     int64               `gorm:"column:extras_cents;not null"`
	SubtotalCents   int64               `gorm:"column:subtotal_cents;not null"`
	Note            *string             `gorm:"column:note"`
	Position        int                 `gorm:"column:position;not null"`
	Modifiers       []OrderLineModifier `gorm:"foreignKey:OrderLineID"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
}

// OrderLineModifier records an extra, inclusion or removal applied to a line.
type OrderLineModifier struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	OrderLineID    uuid.UUID          `gorm:"column:order_line_id;type:uuid;not null"`
	Kind           enums.ModifierKind `gorm:"column:kind;type:text;not null"`
	Name           string             `gorm:"column:name;not null"`
	Quantity       int                `gorm:"column:quantity;not null"`
	UnitPriceCents int64              `gorm:"column:unit_price_cents;not null"`
}
