package customers

import (
	"context"

	"github.com/angelmondragon/ordering-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads registered customer profiles.
type Repository interface {
	FindProfile(ctx context.Context, id uuid.UUID) (*models.CustomerProfile, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a customer profile repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindProfile(ctx context.Context, id uuid.UUID) (*models.CustomerProfile, error) {
	var profile models.CustomerProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
