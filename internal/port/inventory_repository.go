package port

import (
	"context"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
)

// InventoryRepository owns stock counts and the atomic sale unit.
type InventoryRepository interface {
	// RecordSale performs the whole sale unit in one transaction: lock the
	// inventory row by product name, validate stock, decrement, insert the
	// sale and the outbox event. Returns the new sale ID. On
	// domain.ErrProductNotFound, domain.ErrInsufficientStock or any
	// infrastructure error nothing is written.
	RecordSale(ctx context.Context, sale domain.Sale, event domain.OutboxEvent) (int64, error)

	// GetItemByName retrieves an inventory item, or domain.ErrProductNotFound.
	GetItemByName(ctx context.Context, productName string) (*domain.InventoryItem, error)

	// GetItemBySKU retrieves an inventory item, or domain.ErrProductNotFound.
	GetItemBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error)

	// ListItems returns all inventory items, newest first.
	ListItems(ctx context.Context) ([]domain.InventoryItem, error)

	// AddItem inserts a new product and returns its ID.
	AddItem(ctx context.Context, item domain.InventoryItem) (int64, error)

	// SetQuantity overwrites the stock level (restock / conflict resolution).
	SetQuantity(ctx context.Context, productName string, quantity int) error

	// UpdateItem overwrites SKU, stock, price and description by product name.
	UpdateItem(ctx context.Context, item domain.InventoryItem) error

	// DeleteItem removes a product by name.
	DeleteItem(ctx context.Context, productName string) error

	// ItemsBelowThreshold lists items whose stock is under the threshold.
	ItemsBelowThreshold(ctx context.Context, threshold int) ([]domain.InventoryItem, error)
}
