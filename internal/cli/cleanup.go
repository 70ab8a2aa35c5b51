package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pantry/internal/database"
	"pantry/internal/domain/auth"
)

// NewCleanupCommand removes expired and used password reset tokens.
func NewCleanupCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "cleanup",
		Short:        "Delete expired or used password reset tokens",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer database.Close(db)

			n, err := auth.NewUserRepository(db).DeleteStaleResetTokens(cmd.Context(), time.Now())
			if err != nil {
				return fmt.Errorf("cleanup reset tokens: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "auth cleanup completed: password_reset_tokens=%d\n", n)
			return nil
		},
	}
}
