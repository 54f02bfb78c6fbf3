package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	"github.com/SscSPs/audit_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/audit_portal/internal/core/ports/services"
	"github.com/SscSPs/audit_portal/internal/dto"
	"github.com/google/uuid"
)

// auditRecordService implements the AuditRecordSvcFacade interface
type auditRecordService struct {
	BaseService
	recordRepo    portsrepo.AuditRecordRepositoryFacade
	accountRepo   portsrepo.AccountReader
	notifications portssvc.NotificationSvc
}

// NewAuditRecordService creates a new audit record service.
func NewAuditRecordService(
	recordRepo portsrepo.AuditRecordRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	notifications portssvc.NotificationSvc,
	options ...ServiceOption,
) portssvc.AuditRecordSvcFacade {
	return &auditRecordService{
		BaseService:   newBaseService(options...),
		recordRepo:    recordRepo,
		accountRepo:   accountRepo,
		notifications: notifications,
	}
}

var _ portssvc.AuditRecordSvcFacade = (*auditRecordService)(nil)

func (s *auditRecordService) CreateRecord(ctx context.Context, caller *domain.Account, req dto.CreateRecordRequest) (*domain.AuditRecord, error) {
	if err := s.CheckPermission(ctx, caller, domain.OpCreateRecord); err != nil {
		return nil, err
	}
	if req.BookQuantity == nil || req.ActualQuantity == nil {
		return nil, apperrors.NewValidationError("bookQuantity and actualQuantity are required")
	}

	client, err := s.resolveClient(ctx, caller, req)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	rec, err := domain.NewAuditRecord(domain.NewRecordInput{
		RecordID:       uuid.NewString(),
		BinID:          req.BinID,
		Location:       req.Location,
		BookQuantity:   *req.BookQuantity,
		ActualQuantity: *req.ActualQuantity,
		Notes:          req.Notes,
	}, caller, client, now)
	if err != nil {
		return nil, err
	}

	if err := s.recordRepo.SaveRecord(ctx, *rec); err != nil {
		s.LogError(ctx, err, "Failed to save audit record", slog.String("bin_id", rec.BinID))
		return nil, err
	}

	s.LogInfo(ctx, "Audit record created",
		slog.String("record_id", rec.RecordID),
		slog.String("status", string(rec.Status)),
		slog.String("discrepancy", rec.Discrepancy.String()))

	if rec.Status == domain.StatusPendingClient {
		s.notifications.Publish(ctx, domain.RecordPendingEvent(rec, now))
	}
	return rec, nil
}

// resolveClient finds the client a new record belongs to. An explicit reference wins; a
// staff member with exactly one assigned client falls back to that client. No reference
// leaves the record open to every client.
func (s *auditRecordService) resolveClient(ctx context.Context, caller *domain.Account, req dto.CreateRecordRequest) (*domain.Account, error) {
	var (
		client *domain.Account
		err    error
		ref    string
	)
	switch {
	case req.ClientID != "":
		ref = req.ClientID
		client, err = s.accountRepo.FindAccountByID(ctx, req.ClientID)
	case req.ClientCode != "":
		ref = req.ClientCode
		client, err = s.accountRepo.FindClientByCode(ctx, req.ClientCode)
	case caller.Role == domain.RoleStaff && len(caller.AssignedClientIDs) == 1:
		ref = caller.AssignedClientIDs[0]
		client, err = s.accountRepo.FindAccountByID(ctx, ref)
	default:
		return nil, nil
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown client %q", ref))
		}
		return nil, err
	}
	if !client.IsClient() || !client.IsApproved {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%q is not an approved client", ref))
	}
	return client, nil
}

func (s *auditRecordService) ListPendingRecords(ctx context.Context, caller *domain.Account) ([]domain.AuditRecord, error) {
	if err := s.CheckPermission(ctx, caller, domain.OpListPendingRecords); err != nil {
		return nil, err
	}
	records, err := s.recordRepo.FindRecords(ctx, domain.RecordFilter{Status: domain.StatusPendingClient})
	if err != nil {
		return nil, err
	}
	return visibleTo(caller, records), nil
}

func (s *auditRecordService) Respond(ctx context.Context, caller *domain.Account, recordID string, req dto.RespondRequest) (*domain.AuditRecord, error) {
	if err := s.CheckPermission(ctx, caller, domain.OpRespondToRecord); err != nil {
		return nil, err
	}

	rec, err := s.recordRepo.FindRecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if caller.IsClient() && rec.ClientID != "" && !rec.IsAssociatedWith(caller.AccountID) {
		return nil, apperrors.NewForbiddenError("record belongs to another client")
	}

	expected := rec.Status
	now := s.Now()
	if err := rec.ApplyResponse(req.Action, req.Comment, caller.AccountID, now); err != nil {
		return nil, err
	}

	if err := s.recordRepo.UpdateRecordIfStatus(ctx, *rec, expected); err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			s.LogInfo(ctx, "Lost response race", slog.String("record_id", recordID))
		} else {
			s.LogError(ctx, err, "Failed to persist response", slog.String("record_id", recordID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Record responded",
		slog.String("record_id", recordID),
		slog.String("action", string(req.Action)),
		slog.String("status", string(rec.Status)))
	s.notifications.Publish(ctx, domain.RecordRespondedEvent(rec, now))
	return rec, nil
}

func (s *auditRecordService) ListRecords(ctx context.Context, caller *domain.Account, filter domain.RecordFilter) ([]domain.AuditRecord, error) {
	if err := s.CheckPermission(ctx, caller, domain.OpListAllRecords); err != nil {
		return nil, err
	}
	return s.recordRepo.FindRecords(ctx, filter)
}

func (s *auditRecordService) ListOwnRecords(ctx context.Context, caller *domain.Account) ([]domain.AuditRecord, error) {
	if err := s.CheckPermission(ctx, caller, domain.OpListOwnRecords); err != nil {
		return nil, err
	}
	return s.recordRepo.FindRecords(ctx, domain.RecordFilter{StaffID: caller.AccountID})
}

func (s *auditRecordService) GetRecord(ctx context.Context, caller *domain.Account, recordID string) (*domain.AuditRecord, error) {
	if err := s.CheckPermission(ctx, caller, domain.OpViewRecord); err != nil {
		return nil, err
	}
	rec, err := s.recordRepo.FindRecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewRecord(caller, rec) {
		return nil, apperrors.NewForbiddenError("record is not visible to this account")
	}
	return rec, nil
}

func visibleTo(viewer *domain.Account, records []domain.AuditRecord) []domain.AuditRecord {
	out := make([]domain.AuditRecord, 0, len(records))
	for i := range records {
		if domain.CanViewRecord(viewer, &records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}
