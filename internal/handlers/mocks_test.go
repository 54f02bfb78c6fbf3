package handlers_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/SscSPs/audit_portal/internal/core/domain"
	portssvc "github.com/SscSPs/audit_portal/internal/core/ports/services"
	"github.com/SscSPs/audit_portal/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock IdentityService ---
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockIdentityService) Authenticate(ctx context.Context, req dto.LoginRequest) (*dto.LoginResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResult), args.Error(1)
}

func (m *MockIdentityService) Authorize(ctx context.Context, token string) (*domain.Account, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockIdentityService) GetAccount(ctx context.Context, caller *domain.Account, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, caller, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockIdentityService) ListAccounts(ctx context.Context, caller *domain.Account, params dto.ListParams) ([]domain.Account, error) {
	args := m.Called(ctx, caller, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockIdentityService) ListPendingAccounts(ctx context.Context, caller *domain.Account) ([]domain.Account, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockIdentityService) ListLoginHistory(ctx context.Context, caller *domain.Account, params dto.ListParams) ([]domain.LoginEvent, error) {
	args := m.Called(ctx, caller, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoginEvent), args.Error(1)
}

func (m *MockIdentityService) ListClientCodes(ctx context.Context, caller *domain.Account) ([]domain.Account, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockIdentityService) Approve(ctx context.Context, caller *domain.Account, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, caller, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockIdentityService) UpdateAccountDetails(ctx context.Context, caller *domain.Account, accountID string, req dto.UpdateAccountDetailsRequest) (*domain.Account, error) {
	args := m.Called(ctx, caller, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.IdentitySvcFacade = (*MockIdentityService)(nil)

// --- Mock AuditRecordService ---
type MockAuditRecordService struct {
	mock.Mock
}

func (m *MockAuditRecordService) GetRecord(ctx context.Context, caller *domain.Account, recordID string) (*domain.AuditRecord, error) {
	args := m.Called(ctx, caller, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuditRecord), args.Error(1)
}

func (m *MockAuditRecordService) ListPendingRecords(ctx context.Context, caller *domain.Account) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

func (m *MockAuditRecordService) ListRecords(ctx context.Context, caller *domain.Account, filter domain.RecordFilter) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, caller, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

func (m *MockAuditRecordService) ListOwnRecords(ctx context.Context, caller *domain.Account) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

func (m *MockAuditRecordService) ExportRecords(ctx context.Context, caller *domain.Account, filter domain.RecordFilter, format portssvc.ExportFormat, w io.Writer) error {
	args := m.Called(ctx, caller, filter, format, w)
	return args.Error(0)
}

func (m *MockAuditRecordService) CreateRecord(ctx context.Context, caller *domain.Account, req dto.CreateRecordRequest) (*domain.AuditRecord, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuditRecord), args.Error(1)
}

func (m *MockAuditRecordService) Respond(ctx context.Context, caller *domain.Account, recordID string, req dto.RespondRequest) (*domain.AuditRecord, error) {
	args := m.Called(ctx, caller, recordID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuditRecord), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AuditRecordSvcFacade = (*MockAuditRecordService)(nil)

// stubHealth answers Ping with a fixed error.
type stubHealth struct {
	err error
}

func (s *stubHealth) Ping(context.Context) error { return s.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
