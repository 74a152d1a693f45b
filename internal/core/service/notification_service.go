package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
	"github.com/shopdeskhq/shopdesk/internal/port"
)

// NotificationService is the per-admin feed surface.
type NotificationService struct {
	notifications port.NotificationRepository
	logger        *zap.Logger
}

func NewNotificationService(notifications port.NotificationRepository, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{notifications: notifications, logger: logger}
}

func (s *NotificationService) Append(ctx context.Context, adminID int64, message string) error {
	if strings.TrimSpace(message) == "" {
		return domain.NewValidationError("message", "must not be empty")
	}
	return s.notifications.Append(ctx, adminID, message)
}

func (s *NotificationService) List(ctx context.Context, adminID int64) ([]domain.Notification, error) {
	return s.notifications.List(ctx, adminID)
}

// MarkRead is idempotent and owner-scoped.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, adminID int64) error {
	return s.notifications.MarkRead(ctx, notificationID, adminID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, adminID int64) error {
	return s.notifications.MarkAllRead(ctx, adminID)
}
