package port

import (
	"context"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
)

// AnalyticsRepository serves the dashboard read models. No writes, no locks.
type AnalyticsRepository interface {
	// ListSales returns all sales, newest first.
	ListSales(ctx context.Context) ([]domain.Sale, error)

	// KPIs aggregates revenue, order and customer totals.
	KPIs(ctx context.Context) (*domain.KPIReport, error)

	// SalesTrends returns per-day revenue totals, oldest first.
	SalesTrends(ctx context.Context) ([]domain.SalesTrendPoint, error)

	// TopProducts returns the highest-revenue products.
	TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error)

	// ListCustomers returns all customers, newest first.
	ListCustomers(ctx context.Context) ([]domain.Customer, error)

	// CustomerStatsByLocation counts customers grouped by location.
	CustomerStatsByLocation(ctx context.Context) ([]domain.LocationStat, error)
}
