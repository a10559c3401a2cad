package branches

import (
	"context"

	"github.com/angelmondragon/ordering-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads branch ordering configuration and delivery zones.
type Repository interface {
	FindBranch(ctx context.Context, id uuid.UUID) (*models.Branch, error)
	FindZone(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a branches repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindBranch(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	var branch models.Branch
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&branch).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *repository) FindZone(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&zone).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}
