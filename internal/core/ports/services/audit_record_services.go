package services

import (
	"context"
	"io"

	"github.com/SscSPs/audit_portal/internal/core/domain"
	"github.com/SscSPs/audit_portal/internal/dto"
)

// ExportFormat selects the encoding of a record export.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// AuditRecordReaderSvc defines read operations on audit records.
type AuditRecordReaderSvc interface {
	GetRecord(ctx context.Context, caller *domain.Account, recordID string) (*domain.AuditRecord, error)
	// ListPendingRecords returns the pending records the caller may act on.
	ListPendingRecords(ctx context.Context, caller *domain.Account) ([]domain.AuditRecord, error)
	// ListRecords is the admin listing, newest entry first.
	ListRecords(ctx context.Context, caller *domain.Account, filter domain.RecordFilter) ([]domain.AuditRecord, error)
	ListOwnRecords(ctx context.Context, caller *domain.Account) ([]domain.AuditRecord, error)
	// ExportRecords writes the filtered admin listing to w.
	ExportRecords(ctx context.Context, caller *domain.Account, filter domain.RecordFilter, format ExportFormat, w io.Writer) error
}

// AuditRecordWriterSvc defines the reconciliation workflow mutations.
type AuditRecordWriterSvc interface {
	CreateRecord(ctx context.Context, caller *domain.Account, req dto.CreateRecordRequest) (*domain.AuditRecord, error)
	// Respond applies a client decision to a pending record. Concurrent responses to the
	// same record resolve to exactly one winner; the rest get apperrors.ErrInvalidState.
	Respond(ctx context.Context, caller *domain.Account, recordID string, req dto.RespondRequest) (*domain.AuditRecord, error)
}

// AuditRecordSvcFacade combines all record-related service interfaces
type AuditRecordSvcFacade interface {
	AuditRecordReaderSvc
	AuditRecordWriterSvc
}
