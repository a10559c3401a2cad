package models

import (
	"time"

	"github.com/google/uuid"
)

// CatalogItem is the authoritative menu record for a branch.
type CatalogItem struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	BranchID        uuid.UUID          `gorm:"column:branch_id;type:uuid;not null"`
	Name            string             `gorm:"column:name;not null"`
	BasePriceCents  int64              `gorm:"column:base_price_cents;not null"`
	Category        string             `gorm:"column:category;not null"`
	Station         string             `gorm:"column:station;not null"`
	AvailableOnline bool               `gorm:"column:available_online;not null"`
	Extras          []CatalogItemExtra `gorm:"foreignKey:ItemID"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// CatalogItemExtra is a priced add-on the kitchen offers for an item.
type CatalogItemExtra struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ItemID     uuid.UUID `gorm:"column:item_id;type:uuid;not null"`
	Name       string    `gorm:"column:name;not null"`
	PriceCents int64     `gorm:"column:price_cents;not null"`
}
