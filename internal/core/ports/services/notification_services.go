package services

import (
	"context"

	"github.com/SscSPs/audit_portal/internal/core/domain"
)

// NotificationSvc fans state changes out to real-time subscribers and out-of-band
// recipients. Delivery is best effort: Publish never fails the calling operation.
type NotificationSvc interface {
	Publish(ctx context.Context, event domain.Event)
	// Wait blocks until in-flight out-of-band deliveries finish.
	Wait()
}
