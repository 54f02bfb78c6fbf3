package repositories

import (
	"context"

	"github.com/SscSPs/audit_portal/internal/core/domain"
)

// AuditRecordReader defines read operations for audit records
type AuditRecordReader interface {
	// FindRecordByID retrieves a record by its identifier.
	FindRecordByID(ctx context.Context, recordID string) (*domain.AuditRecord, error)

	// FindRecords retrieves records matching the filter, newest entry first.
	FindRecords(ctx context.Context, filter domain.RecordFilter) ([]domain.AuditRecord, error)
}

// AuditRecordWriter defines write operations for audit records. Records are never deleted.
type AuditRecordWriter interface {
	// SaveRecord persists a new record.
	SaveRecord(ctx context.Context, record domain.AuditRecord) error

	// UpdateRecordIfStatus writes the record only while its stored status still equals
	// expected. A record that moved on in the meantime yields apperrors.ErrInvalidState.
	UpdateRecordIfStatus(ctx context.Context, record domain.AuditRecord, expected domain.RecordStatus) error
}

// AuditRecordRepositoryFacade combines all record-related repository interfaces
type AuditRecordRepositoryFacade interface {
	AuditRecordReader
	AuditRecordWriter
}
