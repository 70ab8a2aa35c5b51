package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"pantry/internal/domain/auth"
	"pantry/internal/domain/catalog"
	"pantry/internal/domain/inventory"
	"pantry/internal/domain/recipe"
	"pantry/internal/domain/shopping"
)

func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: newLogger()}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

func newLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	if err := recipe.SetupJoinTables(db); err != nil {
		return fmt.Errorf("setup join tables: %w", err)
	}

	models := []any{
		&auth.User{},
		&auth.PasswordResetToken{},
	}
	models = append(models, catalog.Models()...)
	models = append(models, inventory.Models()...)
	models = append(models, shopping.Models()...)
	models = append(models, recipe.Models()...)

	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
