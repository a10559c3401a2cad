package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryZone is a static delivery pricing bucket owned by a branch.
type DeliveryZone struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	BranchID         uuid.UUID `gorm:"column:branch_id;type:uuid;not null"`
	Name             string    `gorm:"column:name;not null"`
	FeeCents         int64     `gorm:"column:fee_cents;not null"`
	MinOrderCents    int64     `gorm:"column:min_order_cents;not null"`
	EstimatedMinutes *int      `gorm:"column:estimated_minutes"`
	Active           bool      `gorm:"column:active;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
