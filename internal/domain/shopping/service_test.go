package shopping

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pantry/internal/domain/catalog"
	"pantry/internal/domain/inventory"
)

const owner = int64(1)

type recordingHub struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingHub) Publish(_ int64, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingHub) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func setupTestService(t *testing.T) (*Service, *gorm.DB, *recordingHub) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:shopping_test_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	models := append(catalog.Models(), inventory.Models()...)
	require.NoError(t, db.AutoMigrate(append(models, Models()...)...))

	hub := &recordingHub{}
	return NewService(db, inventory.NewService(db), hub), db, hub
}

func qty(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestService_CreateNamesFromProduct(t *testing.T) {
	svc, db, hub := setupTestService(t)
	ctx := context.Background()

	eggs := &catalog.Product{OwnerID: owner, Name: "Eggs"}
	require.NoError(t, db.Create(eggs).Error)

	item, err := svc.Create(ctx, owner, ItemInput{ProductID: &eggs.ID, Quantity: qty("12")})
	require.NoError(t, err)
	assert.Equal(t, "Eggs", item.Name)
	assert.True(t, item.Quantity.Valid)

	_, err = svc.Create(ctx, owner, ItemInput{Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)

	free, err := svc.Create(ctx, owner, ItemInput{Name: " paper towels "})
	require.NoError(t, err)
	assert.Equal(t, "paper towels", free.Name)
	assert.False(t, free.Quantity.Valid)

	assert.Equal(t, []string{EventItemCreated, EventItemCreated}, hub.types())
}

func TestService_ToggleAndDelete(t *testing.T) {
	svc, _, hub := setupTestService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, owner, ItemInput{Name: "Bread"})
	require.NoError(t, err)

	toggled, err := svc.Toggle(ctx, owner, item.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Checked)

	_, err = svc.Toggle(ctx, 2, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	checked := true
	items, err := svc.List(ctx, owner, Filter{Checked: &checked})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, svc.Delete(ctx, owner, item.ID))
	assert.ErrorIs(t, svc.Delete(ctx, owner, item.ID), ErrNotFound)

	assert.Equal(t, []string{EventItemCreated, EventItemUpdated, EventItemDeleted}, hub.types())
}

func TestService_Checkout(t *testing.T) {
	svc, db, hub := setupTestService(t)
	ctx := context.Background()

	pantry := &catalog.Location{OwnerID: owner, Name: "Pantry"}
	require.NoError(t, db.Create(pantry).Error)
	rice := &catalog.Product{OwnerID: owner, Name: "Rice"}
	require.NoError(t, db.Create(rice).Error)

	_, err := svc.Create(ctx, owner, ItemInput{ProductID: &rice.ID, Quantity: qty("2"), Checked: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, ItemInput{Name: "Candles", Checked: true})
	require.NoError(t, err)
	open, err := svc.Create(ctx, owner, ItemInput{Name: "Milk"})
	require.NoError(t, err)

	foreign := int64(9999)
	_, err = svc.Checkout(ctx, owner, CheckoutRequest{LocationID: &foreign})
	assert.ErrorIs(t, err, catalog.ErrInvalidReference)

	res, err := svc.Checkout(ctx, owner, CheckoutRequest{LocationID: &pantry.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Moved)
	assert.Equal(t, 2, res.Removed)

	remaining, err := svc.List(ctx, owner, Filter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, open.ID, remaining[0].ID)

	var stock []inventory.Item
	require.NoError(t, db.Where("owner_id = ?", owner).Find(&stock).Error)
	require.Len(t, stock, 1)
	assert.Equal(t, rice.ID, stock[0].ProductID)
	assert.Equal(t, pantry.ID, *stock[0].LocationID)
	assert.True(t, stock[0].Quantity.Equal(decimal.NewFromInt(2)))

	assert.Contains(t, hub.types(), EventListChanged)
}

func TestService_AddManyIsAtomic(t *testing.T) {
	svc, db, _ := setupTestService(t)
	ctx := context.Background()

	missing := int64(404)
	_, err := svc.AddMany(ctx, owner, []ItemInput{{Name: "Butter"}, {ProductID: &missing}})
	assert.ErrorIs(t, err, catalog.ErrInvalidReference)

	var count int64
	require.NoError(t, db.Model(&Item{}).Count(&count).Error)
	assert.Zero(t, count)

	items, err := svc.AddMany(ctx, owner, []ItemInput{{Name: "Butter"}, {Name: "Sugar"}})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.NotZero(t, items[1].ID)

	cleared, err := svc.ClearChecked(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, cleared)
}
