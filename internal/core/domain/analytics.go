package domain

import "github.com/shopspring/decimal"

// KPIReport aggregates the headline dashboard numbers.
type KPIReport struct {
	TotalRevenue   decimal.Decimal
	TotalOrders    int64
	TotalCustomers int64
	AvgOrderValue  decimal.Decimal
}

// SalesTrendPoint is one day's revenue total.
type SalesTrendPoint struct {
	Date  string
	Total decimal.Decimal
}

// TopProduct ranks a product by lifetime revenue.
type TopProduct struct {
	ProductName   string
	TotalQuantity int64
	TotalRevenue  decimal.Decimal
}

// LocationStat counts customers per location.
type LocationStat struct {
	Location string
	Count    int64
}
