package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/audit_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/audit_portal/internal/core/ports/services"
	"github.com/SscSPs/audit_portal/internal/dto"
	"github.com/SscSPs/audit_portal/internal/notify"
	"github.com/SscSPs/audit_portal/internal/realtime"
)

const defaultNotifyTimeout = 10 * time.Second

// notificationService implements the NotificationSvc interface
type notificationService struct {
	BaseService
	broadcaster realtime.Broadcaster
	notifier    notify.Notifier
	accountRepo portsrepo.AccountReader
	region      string
	timeout     time.Duration

	wg sync.WaitGroup
}

// NewNotificationService creates the fan-out service. notifier may be nil, in which case
// only real-time pushes happen.
func NewNotificationService(
	broadcaster realtime.Broadcaster,
	notifier notify.Notifier,
	accountRepo portsrepo.AccountReader,
	region string,
	timeout time.Duration,
	options ...ServiceOption,
) portssvc.NotificationSvc {
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}
	return &notificationService{
		BaseService: newBaseService(options...),
		broadcaster: broadcaster,
		notifier:    notifier,
		accountRepo: accountRepo,
		region:      region,
		timeout:     timeout,
	}
}

var _ portssvc.NotificationSvc = (*notificationService)(nil)

// Publish pushes the event to its real-time audiences right away and hands the
// out-of-band notices to a background goroutine.
func (s *notificationService) Publish(ctx context.Context, event domain.Event) {
	s.pushRealtime(ctx, event)

	if s.notifier == nil || !wantsNotice(event) {
		return
	}

	// Detached so the notices outlive the request that caused them.
	bg := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(bg, s.timeout)
		defer cancel()
		s.sendNotices(ctx, event)
	}()
}

func (s *notificationService) Wait() {
	s.wg.Wait()
}

func (s *notificationService) pushRealtime(ctx context.Context, event domain.Event) {
	if s.broadcaster == nil {
		return
	}
	payload, err := encodePayload(event)
	if err != nil {
		s.LogError(ctx, err, "Failed to encode event payload", slog.String("event", string(event.Type)))
		return
	}

	msg := realtime.Message{Event: string(event.Type), Payload: payload, SentAt: event.OccurredAt}
	if event.Record != nil {
		msg.RecordID = event.Record.RecordID
	}
	for _, aud := range event.Audiences {
		msg.Channel = string(aud)
		if err := s.broadcaster.Broadcast(ctx, string(aud), msg); err != nil {
			s.LogError(ctx, err, "Real-time broadcast failed",
				slog.String("event", string(event.Type)),
				slog.String("channel", string(aud)))
		}
	}
}

// encodePayload uses the redacted wire views so subscribers never see credential data.
func encodePayload(event domain.Event) (json.RawMessage, error) {
	switch {
	case event.Record != nil:
		return json.Marshal(dto.ToRecordResponse(event.Record))
	case event.Account != nil:
		return json.Marshal(dto.ToAccountResponse(event.Account))
	}
	return nil, nil
}

// wantsNotice reports whether event also goes out by email / WhatsApp. Approval responses
// only reach the staff author in real time.
func wantsNotice(event domain.Event) bool {
	if event.Type == domain.EventRecordResponded {
		return event.Record != nil && event.Record.Status == domain.StatusRecountRequired
	}
	return true
}

func (s *notificationService) sendNotices(ctx context.Context, event domain.Event) {
	recipients, err := s.recipients(ctx, event)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve notice recipients", slog.String("event", string(event.Type)))
		return
	}

	for _, acc := range recipients {
		r := notify.RecipientFor(acc.Name, acc.AccountID, acc.Email, acc.Phone, s.region)
		notice, err := notify.Compose(event, r)
		if err != nil {
			s.LogError(ctx, err, "Failed to compose notice",
				slog.String("event", string(event.Type)),
				slog.String("account_id", acc.AccountID))
			continue
		}
		if err := s.notifier.Send(ctx, notice); err != nil {
			s.LogError(ctx, err, "Failed to send notice",
				slog.String("event", string(event.Type)),
				slog.String("account_id", acc.AccountID))
		}
	}
}

func (s *notificationService) recipients(ctx context.Context, event domain.Event) ([]domain.Account, error) {
	if event.Record == nil && event.Account == nil {
		return nil, nil
	}
	switch event.Type {
	case domain.EventRecordPending:
		if event.Record.ClientID != "" {
			return s.single(ctx, event.Record.ClientID)
		}
		return s.accountRepo.ListAccounts(ctx, domain.AccountFilter{Role: domain.RoleClient, OnlyApproved: true})
	case domain.EventRecordResponded:
		return s.single(ctx, event.Record.StaffID)
	case domain.EventAccountRegistered:
		return s.accountRepo.ListAccounts(ctx, domain.AccountFilter{Role: domain.RoleAdmin, OnlyApproved: true})
	case domain.EventAccountApproved:
		return []domain.Account{*event.Account}, nil
	}
	return nil, nil
}

func (s *notificationService) single(ctx context.Context, accountID string) ([]domain.Account, error) {
	acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return []domain.Account{*acc}, nil
}
