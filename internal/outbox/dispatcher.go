package outbox

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shopdeskhq/shopdesk/internal/metrics"
	"github.com/shopdeskhq/shopdesk/internal/port"
)

// Dispatcher drains staged outbox events into the notifications table.
// Events are produced inside the sale transaction; running delivery here
// means a notification-subsystem fault can slow notifications down but can
// never block or roll back a sale. Delivery is at-least-once.
type Dispatcher struct {
	outbox    port.OutboxRepository
	logger    *zap.Logger
	interval  time.Duration
	batchSize int
}

func NewDispatcher(outbox port.OutboxRepository, logger *zap.Logger, interval time.Duration, batchSize int) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		outbox:    outbox,
		logger:    logger,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run polls until ctx is cancelled. The in-flight batch finishes before Run
// returns.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("outbox dispatcher started", zap.Duration("interval", d.interval))
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("outbox dispatcher stopped")
			return
		case <-ticker.C:
			d.drain(context.WithoutCancel(ctx))
		}
	}
}

// drain dispatches one batch. A failed event is logged and left pending for
// the next tick; later events in the batch still get their chance.
func (d *Dispatcher) drain(ctx context.Context) {
	events, err := d.outbox.PendingEvents(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("failed to poll outbox", zap.Error(err))
		return
	}
	metrics.OutboxPending.Set(float64(len(events)))
	if len(events) == 0 {
		return
	}

	for _, event := range events {
		if err := d.outbox.Dispatch(ctx, event); err != nil {
			d.logger.Error("failed to dispatch event",
				zap.String("event_id", event.ID),
				zap.Int64("admin_id", event.AdminID),
				zap.Error(err),
			)
			continue
		}
		metrics.NotificationsDispatched.Inc()
	}
}
