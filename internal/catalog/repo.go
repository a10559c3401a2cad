package catalog

import (
	"context"

	"github.com/angelmondragon/ordering-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads catalog items and promotion lines.
type Repository interface {
	FindItems(ctx context.Context, branchID uuid.UUID, ids []uuid.UUID) ([]models.CatalogItem, error)
	FindPromotionItems(ctx context.Context, itemIDs []uuid.UUID) ([]models.PromotionItem, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindItems(ctx context.Context, branchID uuid.UUID, ids []uuid.UUID) ([]models.CatalogItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.CatalogItem
	err := r.db.WithContext(ctx).
		Preload("Extras").
		Where("branch_id = ? AND id IN ?", branchID, ids).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindPromotionItems returns every promotion line for the items. Channel and date
// eligibility is decided by the caller.
func (r *repository) FindPromotionItems(ctx context.Context, itemIDs []uuid.UUID) ([]models.PromotionItem, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var lines []models.PromotionItem
	err := r.db.WithContext(ctx).
		Preload("Promotion").
		Where("item_id IN ?", itemIDs).
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
