package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shopdeskhq/shopdesk/internal/port"
)

const jobTimeout = 30 * time.Second

// Scheduler runs the periodic housekeeping jobs: low-stock alerts for every
// admin and purging of expired password reset tokens.
type Scheduler struct {
	cron          *cron.Cron
	inventory     port.InventoryRepository
	notifications port.NotificationRepository
	admins        port.AdminRepository
	logger        *zap.Logger
	threshold     int
	schedule      string
}

func New(
	inventory port.InventoryRepository,
	notifications port.NotificationRepository,
	admins port.AdminRepository,
	logger *zap.Logger,
	threshold int,
	schedule string,
) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:          cron.New(),
		inventory:     inventory,
		notifications: notifications,
		admins:        admins,
		logger:        logger,
		threshold:     threshold,
		schedule:      schedule,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.lowStockScan); err != nil {
		return fmt.Errorf("schedule low-stock scan: %w", err)
	}
	// Reset tokens live for an hour; a nightly sweep keeps the table small.
	if _, err := s.cron.AddFunc("30 3 * * *", s.purgeResetTokens); err != nil {
		return fmt.Errorf("schedule token purge: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("low_stock_schedule", s.schedule))
	return nil
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) lowStockScan() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	items, err := s.inventory.ItemsBelowThreshold(ctx, s.threshold)
	if err != nil {
		s.logger.Error("low-stock scan failed", zap.Error(err))
		return
	}
	if len(items) == 0 {
		return
	}

	admins, err := s.admins.ListAdmins(ctx)
	if err != nil {
		s.logger.Error("low-stock scan: list admins failed", zap.Error(err))
		return
	}

	for _, item := range items {
		message := fmt.Sprintf("⚠️ Low stock: %s has %d left", item.ProductName, item.QuantityInStock)
		for _, admin := range admins {
			if err := s.notifications.Append(ctx, admin.ID, message); err != nil {
				s.logger.Error("low-stock alert failed",
					zap.Int64("admin_id", admin.ID),
					zap.String("product_name", item.ProductName),
					zap.Error(err),
				)
			}
		}
	}
	s.logger.Info("low-stock scan finished", zap.Int("items", len(items)))
}

func (s *Scheduler) purgeResetTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	purged, err := s.admins.PurgeExpiredResetTokens(ctx)
	if err != nil {
		s.logger.Error("reset token purge failed", zap.Error(err))
		return
	}
	if purged > 0 {
		s.logger.Info("purged expired reset tokens", zap.Int64("count", purged))
	}
}
