package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	"github.com/SscSPs/audit_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
)

// AuditRecordRepository is the in-memory audit records collection.
type AuditRecordRepository struct {
	store *Store
}

var _ portsrepo.AuditRecordRepositoryFacade = (*AuditRecordRepository)(nil)

func (r *AuditRecordRepository) SaveRecord(ctx context.Context, record domain.AuditRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.RecordID]; ok {
		return fmt.Errorf("record %s: %w", record.RecordID, apperrors.ErrDuplicate)
	}
	s.records[record.RecordID] = cloneRecord(record)
	return nil
}

// UpdateRecordIfStatus compares and swaps under the write lock, so of two concurrent
// responses only the first sees the expected status.
func (r *AuditRecordRepository) UpdateRecordIfStatus(ctx context.Context, record domain.AuditRecord, expected domain.RecordStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[record.RecordID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if current.Status != expected {
		return apperrors.NewInvalidStateError(fmt.Sprintf("record is %s, not %s", current.Status, expected))
	}

	current.Status = record.Status
	current.Response = record.Response
	current.Timestamps.RespondedAt = record.Timestamps.RespondedAt
	current.Timestamps.FinalStatusAt = record.Timestamps.FinalStatusAt
	s.records[record.RecordID] = cloneRecord(current)
	return nil
}

func (r *AuditRecordRepository) FindRecordByID(ctx context.Context, recordID string) (*domain.AuditRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[recordID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := cloneRecord(rec)
	return &out, nil
}

func (r *AuditRecordRepository) FindRecords(ctx context.Context, filter domain.RecordFilter) ([]domain.AuditRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	out := []domain.AuditRecord{}
	for _, rec := range s.records {
		if filter.Matches(&rec) {
			out = append(out, cloneRecord(rec))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		ei, ej := out[i].Timestamps.EnteredAt, out[j].Timestamps.EnteredAt
		if ei.Equal(ej) {
			return out[i].RecordID > out[j].RecordID
		}
		return ei.After(ej)
	})
	return out, nil
}
