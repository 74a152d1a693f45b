package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is the authoritative stock record for one product.
// ProductName and SKU are unique keys; the surrogate ID is what sales
// reference so renames cannot break history.
type InventoryItem struct {
	ID              int64
	ProductName     string
	SKU             string
	QuantityInStock int
	Price           decimal.Decimal
	Description     string
	DateAdded       time.Time
	LastRestocked   *time.Time
}
