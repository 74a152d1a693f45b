package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
	"github.com/shopdeskhq/shopdesk/internal/core/service"
)

type InventoryHandler struct {
	inventory *service.InventoryService
}

func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

type inventoryItemResponse struct {
	ID              int64           `json:"id"`
	ProductName     string          `json:"product_name"`
	SKU             string          `json:"sku"`
	QuantityInStock int             `json:"quantity_in_stock"`
	Price           decimal.Decimal `json:"price"`
	Description     string          `json:"description,omitempty"`
	DateAdded       string          `json:"date_added"`
	LastRestocked   string          `json:"last_restocked,omitempty"`
}

func toItemResponse(item domain.InventoryItem) inventoryItemResponse {
	out := inventoryItemResponse{
		ID:              item.ID,
		ProductName:     item.ProductName,
		SKU:             item.SKU,
		QuantityInStock: item.QuantityInStock,
		Price:           item.Price,
		Description:     item.Description,
		DateAdded:       item.DateAdded.Format("2006-01-02 15:04:05"),
	}
	if item.LastRestocked != nil {
		out.LastRestocked = item.LastRestocked.Format("2006-01-02 15:04:05")
	}
	return out
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.inventory.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory data"})
		return
	}

	out := make([]inventoryItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	c.JSON(http.StatusOK, out)
}

type productRequest struct {
	ProductName     string          `json:"product_name"`
	SKU             string          `json:"sku"`
	QuantityInStock int             `json:"quantity_in_stock"`
	Price           decimal.Decimal `json:"price"`
	Description     string          `json:"description"`
}

// Add handles POST /api/inventory. Name or SKU clashes return 409 with the
// existing row so the conflict modal can offer a resolution.
func (h *InventoryHandler) Add(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	_, err := h.inventory.AddProduct(c.Request.Context(), domain.InventoryItem{
		ProductName:     req.ProductName,
		SKU:             req.SKU,
		QuantityInStock: req.QuantityInStock,
		Price:           req.Price,
		Description:     req.Description,
	})
	if err != nil {
		var conflict *domain.ConflictError
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &conflict):
			c.JSON(http.StatusConflict, gin.H{
				"error":           conflict.Error(),
				"conflictField":   conflict.Field,
				"existingProduct": toItemResponse(*conflict.Existing),
			})
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product. Please try again later."})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Product added successfully"})
}

type updateQuantityRequest struct {
	ProductName string `json:"product_name"`
	Quantity    *int   `json:"quantity"`
}

// UpdateQuantity handles PATCH /api/inventory/quantity.
func (h *InventoryHandler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name and quantity are required"})
		return
	}

	err := h.inventory.UpdateQuantity(c.Request.Context(), req.ProductName, *req.Quantity)
	if err != nil {
		respondInventoryError(c, err, "Failed to update quantity")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quantity updated successfully"})
}

// Update handles PATCH /api/inventory/update, the full-row update used by
// the conflict-resolution flow.
func (h *InventoryHandler) Update(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	err := h.inventory.UpdateProduct(c.Request.Context(), domain.InventoryItem{
		ProductName:     req.ProductName,
		SKU:             req.SKU,
		QuantityInStock: req.QuantityInStock,
		Price:           req.Price,
		Description:     req.Description,
	})
	if err != nil {
		respondInventoryError(c, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

// Delete handles DELETE /api/inventory/:product_name.
func (h *InventoryHandler) Delete(c *gin.Context) {
	err := h.inventory.Delete(c.Request.Context(), c.Param("product_name"))
	if err != nil {
		respondInventoryError(c, err, "Failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func respondInventoryError(c *gin.Context, err error, fallback string) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found in inventory"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
