package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Branch holds the ordering configuration of a single restaurant location.
type Branch struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name                  string          `gorm:"column:name;not null"`
	OnlineOrderingEnabled bool            `gorm:"column:online_ordering_enabled;not null"`
	PickupEnabled         bool            `gorm:"column:pickup_enabled;not null"`
	DeliveryEnabled       bool            `gorm:"column:delivery_enabled;not null"`
	OnlinePaymentEnabled  bool            `gorm:"column:online_payment_enabled;not null"`
	AutoAccept            bool            `gorm:"column:auto_accept;not null"`
	StaticDeliveryFee     int64           `gorm:"column:static_delivery_fee_cents;not null"`
	StaticMinOrder        int64           `gorm:"column:static_min_order_cents;not null"`
	PickupPrepMinutes     int             `gorm:"column:pickup_prep_minutes;not null"`
	DeliveryPrepMinutes   int             `gorm:"column:delivery_prep_minutes;not null"`
	Lat                   *float64        `gorm:"column:lat"`
	Lng                   *float64        `gorm:"column:lng"`
	DeliveryRadiusMeters  int             `gorm:"column:delivery_radius_meters;not null"`
	DeliveryBaseFee       int64           `gorm:"column:delivery_base_fee_cents;not null"`
	DeliveryFeePerKm      decimal.Decimal `gorm:"column:delivery_fee_per_km;type:numeric(12,2);not null"`
	CreatedAt             time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// HasLocation reports whether the branch coordinates are configured.
func (b Branch) HasLocation() bool {
	return b.Lat != nil && b.Lng != nil
}
