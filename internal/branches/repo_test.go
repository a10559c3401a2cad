package branches

import (
	"context"
	"testing"

	"github.com/angelmondragon/ordering-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBranchesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	branches := `
CREATE TABLE IF NOT EXISTS branches (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  online_ordering_enabled INTEGER NOT NULL DEFAULT 1,
  pickup_enabled INTEGER NOT NULL DEFAULT 1,
  delivery_enabled INTEGER NOT NULL DEFAULT 0,
  online_payment_enabled INTEGER NOT NULL DEFAULT 0,
  auto_accept INTEGER NOT NULL DEFAULT 0,
  static_delivery_fee_cents INTEGER NOT NULL DEFAULT 0,
  static_min_order_cents INTEGER NOT NULL DEFAULT 0,
  pickup_prep_minutes INTEGER NOT NULL DEFAULT 20,
  delivery_prep_minutes INTEGER NOT NULL DEFAULT 40,
  lat REAL,
  lng REAL,
  delivery_radius_meters INTEGER NOT NULL DEFAULT 0,
  delivery_base_fee_cents INTEGER NOT NULL DEFAULT 0,
  delivery_fee_per_km TEXT NOT NULL DEFAULT '0',
  created_at DATETIME,
  updated_at DATETIME
);`
	zones := `
CREATE TABLE IF NOT EXISTS delivery_zones (
  id TEXT PRIMARY KEY,
  branch_id TEXT NOT NULL,
  name TEXT NOT NULL,
  fee_cents INTEGER NOT NULL DEFAULT 0,
  min_order_cents INTEGER NOT NULL DEFAULT 0,
  estimated_minutes INTEGER,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(branches).Error)
	require.NoError(t, db.Exec(zones).Error)
	return db
}

func TestRepositoryFindBranch(t *testing.T) {
	db := setupBranchesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	lat, lng := 19.43, -99.13
	branch := models.Branch{
		ID:                    uuid.New(),
		Name:                  "Centro",
		OnlineOrderingEnabled: true,
		PickupEnabled:         true,
		DeliveryEnabled:       true,
		AutoAccept:            true,
		StaticDeliveryFee:     3500,
		StaticMinOrder:        10000,
		PickupPrepMinutes:     15,
		DeliveryPrepMinutes:   35,
		Lat:                   &lat,
		Lng:                   &lng,
		DeliveryRadiusMeters:  5000,
		DeliveryBaseFee:       2000,
		DeliveryFeePerKm:      decimal.RequireFromString("7.50"),
	}
	require.NoError(t, db.Create(&branch).Error)

	found, err := repo.FindBranch(ctx, branch.ID)
	require.NoError(t, err)
	assert.Equal(t, "Centro", found.Name)
	assert.True(t, found.AutoAccept)
	assert.True(t, found.DeliveryEnabled)
	assert.False(t, found.OnlinePaymentEnabled)
	assert.Equal(t, int64(10000), found.StaticMinOrder)
	assert.True(t, found.HasLocation())
	assert.True(t, decimal.RequireFromString("7.5").Equal(found.DeliveryFeePerKm))

	_, err = repo.FindBranch(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindZone(t *testing.T) {
	db := setupBranchesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	minutes := 45
	zone := models.DeliveryZone{
		ID:               uuid.New(),
		BranchID:         uuid.New(),
		Name:             "Norte",
		FeeCents:         4500,
		MinOrderCents:    5000,
		EstimatedMinutes: &minutes,
		Active:           true,
	}
	require.NoError(t, db.Create(&zone).Error)

	found, err := repo.FindZone(ctx, zone.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4500), found.FeeCents)
	assert.Equal(t, int64(5000), found.MinOrderCents)
	require.NotNil(t, found.EstimatedMinutes)
	assert.Equal(t, 45, *found.EstimatedMinutes)

	_, err = repo.FindZone(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
