// Package cli implements auditctl, the operator tool for the audit portal.
package cli

import (
	"log/slog"
	"os"

	"github.com/SscSPs/audit_portal/pkg/database"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose        bool
	MigrationsPath string
}

// NewRootCommand creates the root command for auditctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "auditctl",
		Short: "Operator tooling for the audit portal",
		Long:  "Schema migrations and first-admin provisioning against the portal's PostgreSQL database.",
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.MigrationsPath, "migrations", database.DefaultMigrationsPath, "migration source URL")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedAdminCommand(opts))

	return cmd
}

func (o *RootOptions) logger() *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
