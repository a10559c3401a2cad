package orders

import (
	"context"

	"github.com/angelmondragon/ordering-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InsertOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *repository) InsertLine(ctx context.Context, line *models.OrderLine) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(line).Error
}

func (r *repository) InsertModifiers(ctx context.Context, modifiers []models.OrderLineModifier) error {
	if len(modifiers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&modifiers).Error
}

func (r *repository) DeleteModifiersByLines(ctx context.Context, lineIDs []uuid.UUID) error {
	if len(lineIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("order_line_id IN ?", lineIDs).
		Delete(&models.OrderLineModifier{}).Error
}

func (r *repository) DeleteLinesByOrder(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.OrderLine{}).Error
}

func (r *repository) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", orderID).
		Delete(&models.Order{}).Error
}

func (r *repository) FindByTrackingCode(ctx context.Context, code string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Lines.Modifiers").
		Where("tracking_code = ?", code).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) CountRowsForOrder(ctx context.Context, orderID uuid.UUID, lineIDs []uuid.UUID) (RowCounts, error) {
	var counts RowCounts
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Order{}).Where("id = ?", orderID).Count(&counts.Orders).Error; err != nil {
		return RowCounts{}, err
	}
	if err := db.Model(&models.OrderLine{}).Where("order_id = ?", orderID).Count(&counts.Lines).Error; err != nil {
		return RowCounts{}, err
	}
	if len(lineIDs) > 0 {
		if err := db.Model(&models.OrderLineModifier{}).Where("order_line_id IN ?", lineIDs).Count(&counts.Modifiers).Error; err != nil {
			return RowCounts{}, err
		}
	}
	return counts, nil
}
