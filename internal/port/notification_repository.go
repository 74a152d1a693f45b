package port

import (
	"context"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
)

// NotificationRepository is the per-admin append-only feed.
type NotificationRepository interface {
	// Append inserts one unread notification.
	Append(ctx context.Context, adminID int64, message string) error

	// List returns the admin's notifications, newest first.
	List(ctx context.Context, adminID int64) ([]domain.Notification, error)

	// MarkRead flips is_read for one owned notification. Marking an already
	// read or foreign notification affects nothing and is not an error.
	MarkRead(ctx context.Context, notificationID, adminID int64) error

	// MarkAllRead flips is_read on every unread notification for the admin.
	MarkAllRead(ctx context.Context, adminID int64) error
}

// OutboxRepository drains staged notification events.
type OutboxRepository interface {
	// PendingEvents returns up to limit undispatched events, oldest first.
	PendingEvents(ctx context.Context, limit int) ([]domain.OutboxEvent, error)

	// Dispatch inserts the notification and stamps the event dispatched in
	// one transaction. Redelivery after a crash may duplicate a
	// notification; it never loses one.
	Dispatch(ctx context.Context, event domain.OutboxEvent) error
}
