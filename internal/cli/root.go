package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"pantry/internal/config"
	"pantry/internal/database"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DatabaseURL string
}

// NewRootCommand creates the root command for pantryctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pantryctl",
		Short: "Pantry maintenance commands",
		Long:  "Schema migration, demo data and housekeeping for the pantry API database.",
	}

	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "db", "", "database URL (defaults to DATABASE_URL)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewCleanupCommand(opts))

	return cmd
}

// open loads the environment config and connects, honoring --db.
func (o *RootOptions) open() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if o.DatabaseURL != "" {
		cfg.DatabaseURL = o.DatabaseURL
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect failed: %w", err)
	}
	return cfg, db, nil
}
