package models

import "github.com/google/uuid"

// OrderSequence stores the last order number handed out per branch.
type OrderSequence struct {
	BranchID  uuid.UUID `gorm:"column:branch_id;type:uuid;primaryKey"`
	LastValue int64     `gorm:"column:last_value;not null"`
}
