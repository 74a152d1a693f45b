package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
)

func (m *MySQLAdapter) ListSales(ctx context.Context) ([]domain.Sale, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, product_id, product_name, quantity, total_price, sale_date
		FROM sales ORDER BY sale_date DESC, id DESC`)
	if err != nil {
		return nil, classify("list sales", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(&s.ID, &s.ProductID, &s.ProductName, &s.Quantity, &s.TotalPrice, &s.SaleDate); err != nil {
			return nil, classify("scan sale", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (m *MySQLAdapter) KPIs(ctx context.Context) (*domain.KPIReport, error) {
	var report domain.KPIReport
	err := m.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_price), 0), COUNT(*) FROM sales`,
	).Scan(&report.TotalRevenue, &report.TotalOrders)
	if err != nil {
		return nil, classify("query sale totals", err)
	}

	err = m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).
		Scan(&report.TotalCustomers)
	if err != nil {
		return nil, classify("query customer count", err)
	}

	if report.TotalOrders > 0 {
		report.AvgOrderValue = report.TotalRevenue.
			Div(decimal.NewFromInt(report.TotalOrders)).Round(2)
	}
	return &report, nil
}

func (m *MySQLAdapter) SalesTrends(ctx context.Context) ([]domain.SalesTrendPoint, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT DATE_FORMAT(sale_date, '%Y-%m-%d') AS date, SUM(total_price) AS total
		FROM sales
		GROUP BY DATE(sale_date)
		ORDER BY date ASC`)
	if err != nil {
		return nil, classify("query sales trends", err)
	}
	defer rows.Close()

	var points []domain.SalesTrendPoint
	for rows.Next() {
		var p domain.SalesTrendPoint
		if err := rows.Scan(&p.Date, &p.Total); err != nil {
			return nil, classify("scan trend point", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (m *MySQLAdapter) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT product_name, SUM(quantity) AS total_quantity, SUM(total_price) AS total_revenue
		FROM sales
		GROUP BY product_name
		ORDER BY total_revenue DESC
		LIMIT ?`,
		limit)
	if err != nil {
		return nil, classify("query top products", err)
	}
	defer rows.Close()

	var products []domain.TopProduct
	for rows.Next() {
		var p domain.TopProduct
		if err := rows.Scan(&p.ProductName, &p.TotalQuantity, &p.TotalRevenue); err != nil {
			return nil, classify("scan top product", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (m *MySQLAdapter) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, email, location, join_date
		FROM customers ORDER BY join_date DESC`)
	if err != nil {
		return nil, classify("list customers", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Location, &c.JoinDate); err != nil {
			return nil, classify("scan customer", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (m *MySQLAdapter) CustomerStatsByLocation(ctx context.Context) ([]domain.LocationStat, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT location, COUNT(*) AS count
		FROM customers
		GROUP BY location
		ORDER BY count DESC`)
	if err != nil {
		return nil, classify("query customer stats", err)
	}
	defer rows.Close()

	var stats []domain.LocationStat
	for rows.Next() {
		var s domain.LocationStat
		if err := rows.Scan(&s.Location, &s.Count); err != nil {
			return nil, classify("scan location stat", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
