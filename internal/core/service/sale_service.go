package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
	"github.com/shopdeskhq/shopdesk/internal/metrics"
	"github.com/shopdeskhq/shopdesk/internal/port"
)

const retryBaseDelay = 50 * time.Millisecond

// RecordSaleInput carries one sale request. RequestID is an optional
// client-supplied idempotency key; ActorID attributes the resulting
// notification.
type RecordSaleInput struct {
	RequestID   string
	ProductName string
	Quantity    int
	TotalPrice  decimal.Decimal
	ActorID     int64
}

// SaleService orchestrates the atomic sale unit: claim the request ID,
// delegate the transaction to storage, retry transient failures with
// exponential backoff, and release the claim when the sale did not commit.
type SaleService struct {
	inventory   port.InventoryRepository
	idempotency port.IdempotencyStore
	logger      *zap.Logger
	txTimeout   time.Duration
	maxRetries  int
}

func NewSaleService(
	inventory port.InventoryRepository,
	idempotency port.IdempotencyStore,
	logger *zap.Logger,
	txTimeout time.Duration,
	maxRetries int,
) *SaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{
		inventory:   inventory,
		idempotency: idempotency,
		logger:      logger,
		txTimeout:   txTimeout,
		maxRetries:  maxRetries,
	}
}

// RecordSale records one sale and returns the new sale ID. Validation and
// stock checks happen inside the storage transaction; only infrastructure
// failures are retried. The notification is staged in the same transaction
// and delivered by the outbox dispatcher after commit.
func (s *SaleService) RecordSale(ctx context.Context, in RecordSaleInput) (int64, error) {
	start := time.Now()
	defer func() {
		metrics.SaleDuration.Observe(time.Since(start).Seconds())
	}()

	if err := validateSaleInput(in); err != nil {
		metrics.SalesRejected.WithLabelValues(metrics.ReasonValidation).Inc()
		return 0, err
	}

	claimed := false
	if in.RequestID != "" {
		ok, err := s.idempotency.Claim(ctx, in.RequestID)
		if err != nil {
			metrics.SalesRejected.WithLabelValues(metrics.ReasonInfrastructure).Inc()
			return 0, fmt.Errorf("idempotency claim: %w", err)
		}
		if !ok {
			metrics.SalesRejected.WithLabelValues(metrics.ReasonDuplicate).Inc()
			return 0, domain.ErrDuplicateRequest
		}
		claimed = true
	}

	sale := domain.Sale{
		ProductName: in.ProductName,
		Quantity:    in.Quantity,
		TotalPrice:  in.TotalPrice,
	}
	event := domain.OutboxEvent{
		ID:      uuid.NewString(),
		AdminID: in.ActorID,
		Message: fmt.Sprintf("🛒 Sold %d × %s for %s", in.Quantity, in.ProductName, in.TotalPrice.StringFixed(2)),
	}

	saleID, err := s.recordWithRetry(ctx, sale, event)
	if err != nil {
		if claimed {
			// Free the key so a corrected request can go through.
			if relErr := s.idempotency.Release(context.WithoutCancel(ctx), in.RequestID); relErr != nil {
				s.logger.Warn("failed to release idempotency claim",
					zap.String("request_id", in.RequestID), zap.Error(relErr))
			}
		}
		metrics.SalesRejected.WithLabelValues(rejectReason(err)).Inc()
		return 0, err
	}

	metrics.SalesCommitted.Inc()
	s.logger.Info("sale recorded",
		zap.Int64("sale_id", saleID),
		zap.String("product_name", in.ProductName),
		zap.Int("quantity", in.Quantity),
		zap.Int64("actor_id", in.ActorID),
	)
	return saleID, nil
}

func (s *SaleService) recordWithRetry(ctx context.Context, sale domain.Sale, event domain.OutboxEvent) (int64, error) {
	var (
		saleID int64
		err    error
	)
	for attempt := 0; ; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
		saleID, err = s.inventory.RecordSale(attemptCtx, sale, event)
		cancel()

		if err == nil || !errors.Is(err, domain.ErrRetryable) || attempt >= s.maxRetries {
			return saleID, err
		}

		backoff := retryBaseDelay * time.Duration(1<<attempt)
		s.logger.Warn("retrying sale transaction",
			zap.String("product_name", sale.ProductName),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return 0, fmt.Errorf("sale aborted: %w", ctx.Err())
		}
	}
}

func validateSaleInput(in RecordSaleInput) error {
	if strings.TrimSpace(in.ProductName) == "" {
		return domain.NewValidationError("product_name", "must not be empty")
	}
	if in.Quantity <= 0 {
		return domain.NewValidationError("quantity", "must be positive")
	}
	if in.TotalPrice.IsNegative() {
		return domain.NewValidationError("total_price", "must not be negative")
	}
	return nil
}

func rejectReason(err error) string {
	var vErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return metrics.ReasonNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return metrics.ReasonInsufficientStock
	case errors.Is(err, domain.ErrDuplicateRequest):
		return metrics.ReasonDuplicate
	case errors.As(err, &vErr):
		return metrics.ReasonValidation
	default:
		return metrics.ReasonInfrastructure
	}
}
