package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	"github.com/SscSPs/audit_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
	"github.com/SscSPs/audit_portal/internal/models"
	"github.com/SscSPs/audit_portal/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, name, email, password_hash, role, phone, company, unique_code,
	city, pincode, assigned_client_ids, is_approved, last_login_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(db *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.Role,
		&m.Phone,
		&m.Company,
		&m.UniqueCode,
		&m.City,
		&m.Pincode,
		&m.AssignedClientIDs,
		&m.IsApproved,
		&m.LastLoginAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.Email,
		m.PasswordHash,
		m.Role,
		m.Phone,
		m.Company,
		m.UniqueCode,
		m.City,
		m.Pincode,
		m.AssignedClientIDs,
		m.IsApproved,
		m.LastLoginAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if constraint, ok := uniqueConstraint(err); ok {
		if constraint == "accounts_client_code_key" {
			return apperrors.NewValidationError(fmt.Sprintf("client code %q is already in use", account.UniqueCode))
		}
		return apperrors.NewAppError(http.StatusConflict, "an account with this email already exists", apperrors.ErrDuplicate)
	}
	return wrapError("failed to save account", err)
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $2, phone = $3, company = $4, city = $5, pincode = $6,
		    assigned_client_ids = $7, is_approved = $8, last_updated_at = $9, last_updated_by = $10
		WHERE account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.Phone,
		m.Company,
		m.City,
		m.Pincode,
		m.AssignedClientIDs,
		m.IsApproved,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return wrapError("failed to update account", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxAccountRepository) TouchLastLogin(ctx context.Context, accountID string, at time.Time) error {
	cmdTag, err := r.Pool.Exec(ctx, `UPDATE accounts SET last_login_at = $2 WHERE account_id = $1;`, accountID, at)
	if err != nil {
		return wrapError("failed to record login", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, wrapError(fmt.Sprintf("failed to find account %s", accountID), err)
	}
	return acc, nil
}

func (r *PgxAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = lower($1);`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, strings.TrimSpace(email)))
	if err != nil {
		return nil, wrapError("failed to find account by email", err)
	}
	return acc, nil
}

func (r *PgxAccountRepository) FindClientByCode(ctx context.Context, uniqueCode string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE role = 'client' AND unique_code = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, uniqueCode))
	if err != nil {
		return nil, wrapError("failed to find client by code", err)
	}
	return acc, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.OnlyPending {
		conds = append(conds, "is_approved = FALSE")
	}
	if filter.OnlyApproved {
		conds = append(conds, "is_approved = TRUE")
	}

	query := `SELECT ` + accountColumns + ` FROM accounts`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, max(filter.Offset, 0))
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapError("failed to query accounts", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, wrapError("failed to scan account row", err)
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("error iterating account rows", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) HasApprovedAdmin(ctx context.Context) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE role = 'admin' AND is_approved);`).Scan(&exists)
	if err != nil {
		return false, wrapError("failed to check for approved admins", err)
	}
	return exists, nil
}
