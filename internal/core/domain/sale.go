package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable record of one committed sale. ProductName is frozen
// at commit time so historical rows survive later product renames.
type Sale struct {
	ID          int64
	ProductID   int64
	ProductName string
	Quantity    int
	TotalPrice  decimal.Decimal
	SaleDate    time.Time
}
