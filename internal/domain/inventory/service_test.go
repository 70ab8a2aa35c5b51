package inventory

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pantry/internal/domain/catalog"
)

const owner = int64(1)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:inventory_test_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(append(catalog.Models(), Models()...)...))

	svc := NewService(db)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	return svc, db
}

func seedProduct(t *testing.T, db *gorm.DB, ownerID int64, name string, locationID *int64) *catalog.Product {
	t.Helper()
	p := &catalog.Product{OwnerID: ownerID, Name: name, DefaultLocationID: locationID}
	require.NoError(t, db.Create(p).Error)
	return p
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestService_CreateUsesProductDefaults(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	fridge := &catalog.Location{OwnerID: owner, Name: "Fridge"}
	require.NoError(t, db.Create(fridge).Error)
	milk := seedProduct(t, db, owner, "Milk", &fridge.ID)

	item, err := svc.Create(ctx, owner, ItemInput{ProductID: milk.ID, Quantity: dec("2")})
	require.NoError(t, err)
	require.NotNil(t, item.LocationID)
	assert.Equal(t, fridge.ID, *item.LocationID)
	require.NotNil(t, item.Product)
	assert.Equal(t, "Milk", item.Product.Name)

	_, err = svc.Create(ctx, owner, ItemInput{ProductID: milk.ID, Quantity: dec("0")})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestService_RejectsForeignReferences(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	theirs := seedProduct(t, db, 2, "Eggs", nil)
	_, err := svc.Create(ctx, owner, ItemInput{ProductID: theirs.ID, Quantity: dec("1")})
	assert.ErrorIs(t, err, catalog.ErrInvalidReference)
}

func TestService_Consume(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	flour := seedProduct(t, db, owner, "Flour", nil)

	item, err := svc.Create(ctx, owner, ItemInput{ProductID: flour.ID, Quantity: dec("1.5")})
	require.NoError(t, err)

	_, err = svc.Consume(ctx, owner, item.ID, dec("2"))
	assert.ErrorIs(t, err, ErrInsufficientQuantity)

	res, err := svc.Consume(ctx, owner, item.ID, dec("0.5"))
	require.NoError(t, err)
	assert.False(t, res.Deleted)
	assert.True(t, res.Item.Quantity.Equal(dec("1")))

	res, err = svc.Consume(ctx, owner, item.ID, dec("1"))
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	assert.Nil(t, res.Item)

	_, err = svc.Get(ctx, owner, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ListOrdersByExpiry(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	p := seedProduct(t, db, owner, "Yogurt", nil)

	soon := svc.now().Add(48 * time.Hour)
	later := svc.now().Add(30 * 24 * time.Hour)

	undated, err := svc.Create(ctx, owner, ItemInput{ProductID: p.ID, Quantity: dec("1")})
	require.NoError(t, err)
	lateItem, err := svc.Create(ctx, owner, ItemInput{ProductID: p.ID, Quantity: dec("1"), ExpiresAt: &later})
	require.NoError(t, err)
	soonItem, err := svc.Create(ctx, owner, ItemInput{ProductID: p.ID, Quantity: dec("1"), ExpiresAt: &soon})
	require.NoError(t, err)

	items, err := svc.List(ctx, owner, Filter{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []int64{soonItem.ID, lateItem.ID, undated.ID}, []int64{items[0].ID, items[1].ID, items[2].ID})

	week := 7
	items, err = svc.List(ctx, owner, Filter{ExpiringWithinDays: &week})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, soonItem.ID, items[0].ID)
}

func TestService_InStockAndReceive(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	rice := seedProduct(t, db, owner, "Rice", nil)
	salt := seedProduct(t, db, owner, "Salt", nil)

	stock, err := svc.InStock(ctx, owner, []int64{rice.ID, salt.ID})
	require.NoError(t, err)
	assert.Empty(t, stock)

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := svc.ReceiveTx(tx, owner, Receipt{ProductID: rice.ID, Quantity: dec("1")}); err != nil {
			return err
		}
		return svc.ReceiveTx(tx, owner, Receipt{ProductID: rice.ID, Quantity: dec("2")})
	})
	require.NoError(t, err)

	items, err := svc.List(ctx, owner, Filter{ProductID: &rice.ID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Quantity.Equal(dec("3")))

	stock, err = svc.InStock(ctx, owner, []int64{rice.ID, salt.ID})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{rice.ID: true}, stock)

	err = db.Transaction(func(tx *gorm.DB) error {
		return svc.ReceiveTx(tx, 2, Receipt{ProductID: rice.ID, Quantity: dec("1")})
	})
	assert.ErrorIs(t, err, catalog.ErrInvalidReference)
}
