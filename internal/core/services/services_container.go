package services

import (
	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/audit_portal/internal/core/ports/services"
	"github.com/SscSPs/audit_portal/internal/notify"
	"github.com/SscSPs/audit_portal/internal/platform/config"
	"github.com/SscSPs/audit_portal/internal/realtime"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	broadcaster realtime.Broadcaster,
	notifier notify.Notifier,
	options ...ServiceOption,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Notifications first since the other services publish through it
	container.Notifications = NewNotificationService(
		broadcaster,
		notifier,
		repos.AccountRepo,
		cfg.PhoneDefaultRegion,
		cfg.NotifyTimeout,
		options...,
	)

	container.Identity = NewIdentityService(cfg, repos.AccountRepo, repos.LoginEventRepo, container.Notifications, options...)
	container.Records = NewAuditRecordService(repos.RecordRepo, repos.AccountRepo, container.Notifications, options...)

	return container
}
