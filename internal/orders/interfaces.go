package orders

import (
	"context"

	"github.com/angelmondragon/ordering-backend/pkg/db/models"
	"github.com/google/uuid"
)

// Repository issues single-table statements against the order tables. No
// method spans more than one table, so callers own the write ordering.
type Repository interface {
	InsertOrder(ctx context.Context, order *models.Order) error
	InsertLine(ctx context.Context, line *models.OrderLine) error
	InsertModifiers(ctx context.Context, modifiers []models.OrderLineModifier) error
	DeleteModifiersByLines(ctx context.Context, lineIDs []uuid.UUID) error
	DeleteLinesByOrder(ctx context.Context, orderID uuid.UUID) error
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
	FindByTrackingCode(ctx context.Context, code string) (*models.Order, error)
	CountRowsForOrder(ctx context.Context, orderID uuid.UUID, lineIDs []uuid.UUID) (RowCounts, error)
}

// RowCounts reports how many rows of one order remain per table.
type RowCounts struct {
	Orders    int64
	Lines     int64
	Modifiers int64
}

// Empty reports whether no row of the order is left.
func (c RowCounts) Empty() bool {
	return c.Orders == 0 && c.Lines == 0 && c.Modifiers == 0
}
