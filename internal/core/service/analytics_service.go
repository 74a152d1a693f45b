package service

import (
	"context"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
	"github.com/shopdeskhq/shopdesk/internal/port"
)

const topProductsLimit = 5

// AnalyticsService serves the dashboard read models. Pure queries, no
// concurrency concerns.
type AnalyticsService struct {
	analytics port.AnalyticsRepository
}

func NewAnalyticsService(analytics port.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analytics: analytics}
}

func (s *AnalyticsService) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return s.analytics.ListSales(ctx)
}

func (s *AnalyticsService) KPIs(ctx context.Context) (*domain.KPIReport, error) {
	return s.analytics.KPIs(ctx)
}

func (s *AnalyticsService) SalesTrends(ctx context.Context) ([]domain.SalesTrendPoint, error) {
	return s.analytics.SalesTrends(ctx)
}

func (s *AnalyticsService) TopProducts(ctx context.Context) ([]domain.TopProduct, error) {
	return s.analytics.TopProducts(ctx, topProductsLimit)
}

func (s *AnalyticsService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.analytics.ListCustomers(ctx)
}

func (s *AnalyticsService) CustomerStatsByLocation(ctx context.Context) ([]domain.LocationStat, error) {
	return s.analytics.CustomerStatsByLocation(ctx)
}
