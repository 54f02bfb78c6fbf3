package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	"github.com/SscSPs/audit_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
	"github.com/SscSPs/audit_portal/internal/platform/config"
	"github.com/SscSPs/audit_portal/internal/repositories/database/pgsql"
	"github.com/SscSPs/audit_portal/internal/utils"
	"github.com/SscSPs/audit_portal/pkg/database"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const generatedPasswordBytes = 12

// SeedAdminOptions are the flags of seed-admin.
type SeedAdminOptions struct {
	Email    string
	Name     string
	Password string
}

// NewSeedAdminCommand creates the seed-admin command.
func NewSeedAdminCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedAdminOptions{}

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create or approve an admin account",
		Long: `Creates an approved admin account, or approves the admin already registered with
the given email. A password is generated and printed when --password is omitted.`,
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
			pool, err := database.NewPgxPool(cmd.Context(), cfg.DatabaseURL, true)
			if err != nil {
				return err
			}
			defer pool.Close()

			repos := pgsql.NewRepositoryProvider(pool)
			return SeedAdmin(cmd.Context(), repos.AccountRepo, *opts, time.Now().UTC(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "admin email (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password; generated when empty")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// SeedAdmin provisions an approved admin. An existing admin with the email is approved in
// place; an existing account of another role is an error.
func SeedAdmin(ctx context.Context, repo portsrepo.AccountRepositoryFacade, opts SeedAdminOptions, now time.Time, out io.Writer) error {
	email := domain.NormalizeEmail(opts.Email)
	if email == "" {
		return apperrors.NewValidationError("email is required")
	}

	existing, err := repo.FindAccountByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.IsAdmin() {
			return fmt.Errorf("%s is registered as %s, not admin", email, existing.Role)
		}
		if !existing.Approve("auditctl", now) {
			fmt.Fprintf(out, "admin %s is already approved\n", email)
			return nil
		}
		if err := repo.UpdateAccount(ctx, *existing); err != nil {
			return fmt.Errorf("approve admin: %w", err)
		}
		fmt.Fprintf(out, "approved admin %s (%s)\n", email, existing.AccountID)
		return nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("look up %s: %w", email, err)
	}

	password := opts.Password
	generated := password == ""
	if generated {
		password, err = utils.GenerateSecureRandomString(generatedPasswordBytes)
		if err != nil {
			return err
		}
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	account := domain.Account{
		AccountID:    uuid.NewString(),
		Name:         opts.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsApproved:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "auditctl",
			LastUpdatedAt: now,
			LastUpdatedBy: "auditctl",
		},
	}
	if err := repo.SaveAccount(ctx, account); err != nil {
		return fmt.Errorf("save admin: %w", err)
	}

	fmt.Fprintf(out, "created admin %s (%s)\n", email, account.AccountID)
	if generated {
		fmt.Fprintf(out, "password: %s\n", password)
	}
	return nil
}
