package cli

import (
	"errors"
	"fmt"

	"github.com/SscSPs/audit_portal/internal/platform/config"
	"github.com/SscSPs/audit_portal/pkg/database"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Short:        "Apply pending database migrations",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("PGSQL_URL must be set")
			}
			applied, err := database.RunMigrations(cfg.DatabaseURL, rootOpts.MigrationsPath, rootOpts.logger())
			if err != nil {
				return err
			}
			if applied {
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "schema already up to date")
			}
			return nil
		},
	}
}
