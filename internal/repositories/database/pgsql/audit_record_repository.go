package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	"github.com/SscSPs/audit_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
	"github.com/SscSPs/audit_portal/internal/models"
	"github.com/SscSPs/audit_portal/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const recordColumns = `record_id, bin_id, location, staff_id, staff_name, client_id, client_code,
	client_pincode, book_quantity, actual_quantity, discrepancy, notes, status, response_action,
	response_comment, responder_id, entered_at, responded_at, final_status_at`

type PgxAuditRecordRepository struct {
	BaseRepository
}

func newPgxAuditRecordRepository(db *pgxpool.Pool) *PgxAuditRecordRepository {
	return &PgxAuditRecordRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.AuditRecordRepositoryFacade = (*PgxAuditRecordRepository)(nil)

func scanRecord(row pgx.Row) (*domain.AuditRecord, error) {
	var m models.AuditRecord
	err := row.Scan(
		&m.RecordID,
		&m.BinID,
		&m.Location,
		&m.StaffID,
		&m.StaffName,
		&m.ClientID,
		&m.ClientCode,
		&m.ClientPincode,
		&m.BookQuantity,
		&m.ActualQuantity,
		&m.Discrepancy,
		&m.Notes,
		&m.Status,
		&m.ResponseAction,
		&m.ResponseComment,
		&m.ResponderID,
		&m.EnteredAt,
		&m.RespondedAt,
		&m.FinalStatusAt,
	)
	if err != nil {
		return nil, err
	}
	rec := mapping.ToDomainAuditRecord(m)
	return &rec, nil
}

func (r *PgxAuditRecordRepository) SaveRecord(ctx context.Context, record domain.AuditRecord) error {
	m := mapping.ToModelAuditRecord(record)
	query := `INSERT INTO audit_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);`
	_, err := r.Pool.Exec(ctx, query,
		m.RecordID,
		m.BinID,
		m.Location,
		m.StaffID,
		m.StaffName,
		m.ClientID,
		m.ClientCode,
		m.ClientPincode,
		m.BookQuantity,
		m.ActualQuantity,
		m.Discrepancy,
		m.Notes,
		m.Status,
		m.ResponseAction,
		m.ResponseComment,
		m.ResponderID,
		m.EnteredAt,
		m.RespondedAt,
		m.FinalStatusAt,
	)
	return wrapError("failed to save audit record", err)
}

// UpdateRecordIfStatus only touches the workflow columns; quantities and the discrepancy are
// immutable once written.
func (r *PgxAuditRecordRepository) UpdateRecordIfStatus(ctx context.Context, record domain.AuditRecord, expected domain.RecordStatus) error {
	m := mapping.ToModelAuditRecord(record)
	query := `
		UPDATE audit_records
		SET status = $2, response_action = $3, response_comment = $4, responder_id = $5,
		    responded_at = $6, final_status_at = $7
		WHERE record_id = $1 AND status = $8;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.RecordID,
		m.Status,
		m.ResponseAction,
		m.ResponseComment,
		m.ResponderID,
		m.RespondedAt,
		m.FinalStatusAt,
		string(expected),
	)
	if err != nil {
		return wrapError("failed to update audit record", err)
	}
	if cmdTag.RowsAffected() == 1 {
		return nil
	}

	// Either the record vanished or another response won the race.
	var current string
	err = r.Pool.QueryRow(ctx, `SELECT status FROM audit_records WHERE record_id = $1;`, m.RecordID).Scan(&current)
	if err != nil {
		return wrapError("failed to re-read audit record status", err)
	}
	return apperrors.NewInvalidStateError(fmt.Sprintf("record is %s, not %s", current, expected))
}

func (r *PgxAuditRecordRepository) FindRecordByID(ctx context.Context, recordID string) (*domain.AuditRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM audit_records WHERE record_id = $1;`
	rec, err := scanRecord(r.Pool.QueryRow(ctx, query, recordID))
	if err != nil {
		return nil, wrapError(fmt.Sprintf("failed to find audit record %s", recordID), err)
	}
	return rec, nil
}

// FindRecords builds the WHERE clause from the set filter fields only.
func (r *PgxAuditRecordRepository) FindRecords(ctx context.Context, filter domain.RecordFilter) ([]domain.AuditRecord, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.From != nil {
		add("entered_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("entered_at <= $%d", *filter.To)
	}
	if filter.Location != "" {
		add("location = $%d", filter.Location)
	}
	if filter.StaffName != "" {
		add("position(lower($%d) in lower(staff_name)) > 0", filter.StaffName)
	}
	if filter.ClientCode != "" {
		add("client_code = $%d", filter.ClientCode)
	}
	if filter.Pincode != "" {
		add("client_pincode = $%d", filter.Pincode)
	}
	if filter.StaffID != "" {
		add("staff_id = $%d", filter.StaffID)
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}

	query := `SELECT ` + recordColumns + ` FROM audit_records`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY entered_at DESC, record_id DESC;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapError("failed to query audit records", err)
	}
	defer rows.Close()

	records := []domain.AuditRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, wrapError("failed to scan audit record row", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("error iterating audit record rows", err)
	}
	return records, nil
}
