package recipe

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pantry/internal/domain/catalog"
	"pantry/internal/domain/inventory"
	"pantry/internal/domain/shopping"
	"pantry/internal/pkg/storage"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:recipe_test_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, SetupJoinTables(db))
	models := append(catalog.Models(), inventory.Models()...)
	models = append(models, shopping.Models()...)
	models = append(models, Models()...)
	require.NoError(t, db.AutoMigrate(models...))
	return db
}

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	inv := inventory.NewService(db)
	svc := NewService(
		db,
		catalog.NewProductService(db),
		inv,
		shopping.NewService(db, inv, nil),
		storage.NewLocalStorage(t.TempDir(), "/static/uploads"),
	)
	return svc, db
}

func ptr[T any](v T) *T { return &v }
