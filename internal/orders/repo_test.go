package orders

import (
	"context"
	"testing"

	"github.com/angelmondragon/ordering-backend/pkg/db/models"
	"github.com/angelmondragon/ordering-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  branch_id TEXT NOT NULL,
  order_number INTEGER NOT NULL,
  status TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL,
  service_type TEXT NOT NULL,
  channel TEXT NOT NULL,
  subtotal_cents INTEGER NOT NULL,
  delivery_fee_cents INTEGER NOT NULL DEFAULT 0,
  total_cents INTEGER NOT NULL,
  delivery_zone_id TEXT,
  delivery_degraded INTEGER NOT NULL DEFAULT 0,
  customer_id TEXT,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  customer_email TEXT,
  delivery_address TEXT,
  delivery_lat REAL,
  delivery_lng REAL,
  notes TEXT,
  tracking_code TEXT NOT NULL UNIQUE,
  estimated_minutes INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  UNIQUE (branch_id, order_number)
);`
	lines := `
CREATE TABLE IF NOT EXISTS order_lines (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  promotion_item_id TEXT,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  station TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  extras_cents INTEGER NOT NULL DEFAULT 0,
  subtotal_cents INTEGER NOT NULL,
  note TEXT,
  position INTEGER NOT NULL,
  created_at DATETIME
);`
	modifiers := `
CREATE TABLE IF NOT EXISTS order_line_modifiers (
  id TEXT PRIMARY KEY,
  order_line_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  unit_price_cents INTEGER NOT NULL DEFAULT 0
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(lines).Error)
	require.NoError(t, db.Exec(modifiers).Error)
	return db
}

func seedOrder(t *testing.T, repo Repository) *models.Order {
	t.Helper()
	ctx := context.Background()

	order := &models.Order{
		ID:            uuid.New(),
		BranchID:      uuid.New(),
		OrderNumber:   7,
		Status:        enums.OrderStatusInPreparation,
		PaymentMethod: enums.PaymentMethodCash,
		PaymentStatus: enums.PaymentStatusDueOnHandover,
		ServiceType:   enums.ServiceTypePickup,
		Channel:       "web",
		SubtotalCents: 2500,
		TotalCents:    2500,
		CustomerName:  "Ana",
		CustomerPhone: "5550001",
		TrackingCode:  NewTrackingCode(),
	}
	second := models.OrderLine{ID: uuid.New(), OrderID: order.ID, ItemID: uuid.New(), Name: "Agua", Category: "drinks", Station: "bar", Quantity: 1, UnitPriceCents: 500, SubtotalCents: 500, Position: 1}
	first := models.OrderLine{ID: uuid.New(), OrderID: order.ID, ItemID: uuid.New(), Name: "Tacos", Category: "food", Station: "grill", Quantity: 2, UnitPriceCents: 1000, SubtotalCents: 2000, Position: 0}
	first.Modifiers = []models.OrderLineModifier{
		{ID: uuid.New(), OrderLineID: first.ID, Kind: enums.ModifierKindRemoval, Name: "cebolla", Quantity: 1},
	}
	order.Lines = []models.OrderLine{first, second}

	require.NoError(t, repo.InsertOrder(ctx, order))
	// insert out of position order to check the read ordering
	require.NoError(t, repo.InsertLine(ctx, &order.Lines[1]))
	require.NoError(t, repo.InsertLine(ctx, &order.Lines[0]))
	require.NoError(t, repo.InsertModifiers(ctx, order.Lines[0].Modifiers))
	return order
}

func TestRepositoryInsertOrderSkipsAssociations(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := &models.Order{
		ID:            uuid.New(),
		BranchID:      uuid.New(),
		OrderNumber:   1,
		Status:        enums.OrderStatusPendingConfirmation,
		PaymentMethod: enums.PaymentMethodCash,
		PaymentStatus: enums.PaymentStatusDueOnHandover,
		ServiceType:   enums.ServiceTypePickup,
		Channel:       "web",
		CustomerName:  "Ana",
		CustomerPhone: "5550001",
		TrackingCode:  NewTrackingCode(),
		Lines:         []models.OrderLine{{ID: uuid.New(), Name: "Tacos", Quantity: 1}},
	}
	order.Lines[0].OrderID = order.ID
	require.NoError(t, repo.InsertOrder(ctx, order))

	counts, err := repo.CountRowsForOrder(ctx, order.ID, []uuid.UUID{order.Lines[0].ID})
	require.NoError(t, err)
	assert.Equal(t, RowCounts{Orders: 1}, counts)
}

func TestRepositoryFindByTrackingCode(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	order := seedOrder(t, repo)

	found, err := repo.FindByTrackingCode(context.Background(), order.TrackingCode)
	require.NoError(t, err)
	assert.Equal(t, int64(7), found.OrderNumber)
	assert.Equal(t, enums.OrderStatusInPreparation, found.Status)
	require.Len(t, found.Lines, 2)
	assert.Equal(t, "Tacos", found.Lines[0].Name)
	assert.Equal(t, "Agua", found.Lines[1].Name)
	require.Len(t, found.Lines[0].Modifiers, 1)
	assert.Equal(t, enums.ModifierKindRemoval, found.Lines[0].Modifiers[0].Kind)

	_, err = repo.FindByTrackingCode(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDeletesAreIdempotent(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	order := seedOrder(t, repo)
	lineIDs := []uuid.UUID{order.Lines[0].ID, order.Lines[1].ID}

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.DeleteModifiersByLines(ctx, lineIDs))
		require.NoError(t, repo.DeleteLinesByOrder(ctx, order.ID))
		require.NoError(t, repo.DeleteOrder(ctx, order.ID))
	}

	counts, err := repo.CountRowsForOrder(ctx, order.ID, lineIDs)
	require.NoError(t, err)
	assert.True(t, counts.Empty())
}

func TestRepositoryUniqueOrderNumberPerBranch(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	order := seedOrder(t, repo)

	dup := *order
	dup.ID = uuid.New()
	dup.TrackingCode = NewTrackingCode()
	dup.Lines = nil
	assert.Error(t, repo.InsertOrder(context.Background(), &dup))
}
