package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
	"github.com/shopdeskhq/shopdesk/internal/port"
)

// InventoryService covers the collaborator flows around the ledger: listing,
// product creation with conflict detection, restock and deletion. The sale
// decrement itself goes through SaleService only.
type InventoryService struct {
	inventory port.InventoryRepository
	logger    *zap.Logger
}

func NewInventoryService(inventory port.InventoryRepository, logger *zap.Logger) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{inventory: inventory, logger: logger}
}

func (s *InventoryService) List(ctx context.Context) ([]domain.InventoryItem, error) {
	return s.inventory.ListItems(ctx)
}

// AvailableQuantity reads the current stock level outside any transaction.
// The number is advisory for the UI; the sale path re-reads under lock.
func (s *InventoryService) AvailableQuantity(ctx context.Context, productName string) (int, error) {
	item, err := s.inventory.GetItemByName(ctx, productName)
	if err != nil {
		return 0, err
	}
	return item.QuantityInStock, nil
}

// AddProduct inserts a new product after checking the name and SKU keys.
// A clash returns a *domain.ConflictError carrying the existing row for the
// conflict-resolution UI.
func (s *InventoryService) AddProduct(ctx context.Context, item domain.InventoryItem) (int64, error) {
	if err := validateItem(item); err != nil {
		return 0, err
	}

	if existing, err := s.inventory.GetItemByName(ctx, item.ProductName); err == nil {
		return 0, &domain.ConflictError{Field: "product_name", Existing: existing}
	} else if !errors.Is(err, domain.ErrProductNotFound) {
		return 0, err
	}

	if existing, err := s.inventory.GetItemBySKU(ctx, item.SKU); err == nil {
		return 0, &domain.ConflictError{Field: "sku", Existing: existing}
	} else if !errors.Is(err, domain.ErrProductNotFound) {
		return 0, err
	}

	id, err := s.inventory.AddItem(ctx, item)
	if err != nil {
		return 0, err
	}
	s.logger.Info("product added",
		zap.Int64("product_id", id),
		zap.String("product_name", item.ProductName),
	)
	return id, nil
}

// UpdateQuantity overwrites the stock level (restock / conflict resolution).
func (s *InventoryService) UpdateQuantity(ctx context.Context, productName string, quantity int) error {
	if strings.TrimSpace(productName) == "" {
		return domain.NewValidationError("product_name", "must not be empty")
	}
	if quantity < 0 {
		return domain.NewValidationError("quantity", "must not be negative")
	}
	return s.inventory.SetQuantity(ctx, productName, quantity)
}

// UpdateProduct overwrites SKU, stock, price and description by product name.
func (s *InventoryService) UpdateProduct(ctx context.Context, item domain.InventoryItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	return s.inventory.UpdateItem(ctx, item)
}

func (s *InventoryService) Delete(ctx context.Context, productName string) error {
	if strings.TrimSpace(productName) == "" {
		return domain.NewValidationError("product_name", "must not be empty")
	}
	return s.inventory.DeleteItem(ctx, productName)
}

func validateItem(item domain.InventoryItem) error {
	if strings.TrimSpace(item.ProductName) == "" {
		return domain.NewValidationError("product_name", "must not be empty")
	}
	if strings.TrimSpace(item.SKU) == "" {
		return domain.NewValidationError("sku", "must not be empty")
	}
	if item.QuantityInStock < 0 {
		return domain.NewValidationError("quantity_in_stock", "must not be negative")
	}
	if item.Price.IsNegative() {
		return domain.NewValidationError("price", "must not be negative")
	}
	return nil
}
