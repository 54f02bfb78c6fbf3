package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/audit_portal/internal/core/domain"
	"github.com/SscSPs/audit_portal/internal/notify"
	"github.com/SscSPs/audit_portal/internal/realtime"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	var acc *domain.Account
	if args.Get(0) != nil {
		acc = args.Get(0).(*domain.Account)
	}
	return acc, args.Error(1)
}

func (m *MockAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	var acc *domain.Account
	if args.Get(0) != nil {
		acc = args.Get(0).(*domain.Account)
	}
	return acc, args.Error(1)
}

func (m *MockAccountRepository) FindClientByCode(ctx context.Context, uniqueCode string) (*domain.Account, error) {
	args := m.Called(ctx, uniqueCode)
	var acc *domain.Account
	if args.Get(0) != nil {
		acc = args.Get(0).(*domain.Account)
	}
	return acc, args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	var accounts []domain.Account
	if args.Get(0) != nil {
		accounts = args.Get(0).([]domain.Account)
	}
	return accounts, args.Error(1)
}

func (m *MockAccountRepository) HasApprovedAdmin(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) TouchLastLogin(ctx context.Context, accountID string, at time.Time) error {
	args := m.Called(ctx, accountID, at)
	return args.Error(0)
}

// --- Mock LoginEventRepository ---
type MockLoginEventRepository struct {
	mock.Mock
}

func (m *MockLoginEventRepository) SaveLoginEvent(ctx context.Context, event domain.LoginEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockLoginEventRepository) ListLoginEvents(ctx context.Context, limit int, offset int) ([]domain.LoginEvent, error) {
	args := m.Called(ctx, limit, offset)
	var events []domain.LoginEvent
	if args.Get(0) != nil {
		events = args.Get(0).([]domain.LoginEvent)
	}
	return events, args.Error(1)
}

// recordingNotifications captures published events instead of delivering them.
type recordingNotifications struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingNotifications) Publish(_ context.Context, event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifications) Wait() {}

func (r *recordingNotifications) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

func (r *recordingNotifications) Types() []domain.EventType {
	var types []domain.EventType
	for _, e := range r.Events() {
		types = append(types, e.Type)
	}
	return types
}

// recordingNotifier captures composed notices.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []notify.Notice
	err     error
}

func (r *recordingNotifier) Send(_ context.Context, n notify.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	return r.err
}

func (r *recordingNotifier) Close() error { return nil }

func (r *recordingNotifier) Notices() []notify.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notice(nil), r.notices...)
}

// failingBroadcaster always reports a transport failure.
type failingBroadcaster struct{}

func (failingBroadcaster) Broadcast(context.Context, string, realtime.Message) error {
	return context.DeadlineExceeded
}
