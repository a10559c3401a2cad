package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Promotion groups promotional prices under a validity window and channel set.
type Promotion struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	StartsOn  *time.Time     `gorm:"column:starts_on;type:date"`
	EndsOn    *time.Time     `gorm:"column:ends_on;type:date"`
	Channels  pq.StringArray `gorm:"column:channels;type:text[]"`
	Active    bool           `gorm:"column:active;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// PromotionItem is one promotion line: a promotional price for a single catalog item.
type PromotionItem struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	PromotionID     uuid.UUID  `gorm:"column:promotion_id;type:uuid;not null"`
	ItemID          uuid.UUID  `gorm:"column:item_id;type:uuid;not null"`
	PromoPriceCents int64      `gorm:"column:promo_price_cents;not null"`
	Promotion       *Promotion `gorm:"foreignKey:PromotionID"`
}
