package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:catalog_test_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

func ptr[T any](v T) *T { return &v }

func TestNamedService_CRUD(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)
	ctx := context.Background()

	dairy, err := svc.Create(ctx, 1, NamedInput{Name: "  Dairy "})
	require.NoError(t, err)
	assert.Equal(t, "Dairy", dairy.Name)

	_, err = svc.Create(ctx, 1, NamedInput{Name: "Dairy"})
	assert.ErrorIs(t, err, ErrNameTaken)

	// other owners may reuse the name
	_, err = svc.Create(ctx, 2, NamedInput{Name: "Dairy"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, NamedInput{Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Create(ctx, 1, NamedInput{Name: "Bakery"})
	require.NoError(t, err)

	rows, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bakery", rows[0].Name)

	_, err = svc.Update(ctx, 1, dairy.ID, NamedInput{Name: "Bakery"})
	assert.ErrorIs(t, err, ErrNameTaken)

	updated, err := svc.Update(ctx, 1, dairy.ID, NamedInput{Name: "Milk & Cheese"})
	require.NoError(t, err)
	assert.Equal(t, "Milk & Cheese", updated.Name)

	_, err = svc.Update(ctx, 2, dairy.ID, NamedInput{Name: "Stolen"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, 1, dairy.ID))
	assert.ErrorIs(t, svc.Delete(ctx, 1, dairy.ID), ErrNotFound)
}

func TestUnitService_Abbreviation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUnitService(db)
	ctx := context.Background()

	g, err := svc.Create(ctx, 1, NamedInput{Name: "gram", Abbreviation: ptr(" g ")})
	require.NoError(t, err)
	assert.Equal(t, "g", g.Label())

	pinch, err := svc.Create(ctx, 1, NamedInput{Name: "pinch", Abbreviation: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, pinch.Abbreviation)
	assert.Equal(t, "pinch", pinch.Label())
}

func TestNamedService_DeleteClearsProductRefs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	categories := NewCategoryService(db)
	products := NewProductService(db)

	cat, err := categories.Create(ctx, 1, NamedInput{Name: "Dairy"})
	require.NoError(t, err)
	milk, err := products.Create(ctx, 1, ProductInput{Name: "Milk", CategoryID: &cat.ID})
	require.NoError(t, err)
	require.NotNil(t, milk.Category)

	require.NoError(t, categories.Delete(ctx, 1, cat.ID))

	got, err := products.Get(ctx, 1, milk.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)
}

func TestProductService_References(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	locations := NewLocationService(db)
	products := NewProductService(db)

	foreign, err := locations.Create(ctx, 2, NamedInput{Name: "Their fridge"})
	require.NoError(t, err)

	_, err = products.Create(ctx, 1, ProductInput{Name: "Butter", DefaultLocationID: &foreign.ID})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = products.Create(ctx, 1, ProductInput{Name: "Butter", CategoryID: ptr(int64(999))})
	assert.ErrorIs(t, err, ErrInvalidReference)

	p, err := products.Create(ctx, 1, ProductInput{Name: "Butter", Barcode: ptr("  "), Notes: ptr(" salted ")})
	require.NoError(t, err)
	assert.Nil(t, p.Barcode)
	assert.Equal(t, "salted", *p.Notes)

	_, err = products.Create(ctx, 1, ProductInput{Name: "Butter"})
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestProductService_ListAndSearch(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	products := NewProductService(db)
	categories := NewCategoryService(db)

	veg, err := categories.Create(ctx, 1, NamedInput{Name: "Veg"})
	require.NoError(t, err)

	for _, name := range []string{"Red Onion", "Spring onion", "Garlic", "Onion powder"} {
		in := ProductInput{Name: name}
		if name != "Onion powder" {
			in.CategoryID = &veg.ID
		}
		_, err := products.Create(ctx, 1, in)
		require.NoError(t, err)
	}
	_, err = products.Create(ctx, 2, ProductInput{Name: "Onion"})
	require.NoError(t, err)

	list, total, err := products.List(ctx, 1, ProductFilter{Query: "onion", CategoryID: &veg.ID, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Red Onion", list[0].Name)

	hits, err := products.Search(ctx, 1, "ONION", 0)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "Onion powder", hits[0].Name)

	hits, err = products.Search(ctx, 1, "onion", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = products.Search(ctx, 1, "", 500)
	require.NoError(t, err)
	assert.Len(t, hits, 4)
}
