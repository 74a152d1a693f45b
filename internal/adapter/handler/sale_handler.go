package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
	"github.com/shopdeskhq/shopdesk/internal/core/service"
)

type SaleHandler struct {
	sales     *service.SaleService
	analytics *service.AnalyticsService
}

func NewSaleHandler(sales *service.SaleService, analytics *service.AnalyticsService) *SaleHandler {
	return &SaleHandler{sales: sales, analytics: analytics}
}

type recordSaleRequest struct {
	RequestID   string          `json:"request_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type saleResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	SaleDate    string          `json:"sale_date"`
}

// Record handles POST /api/sales, the core transactional path.
func (h *SaleHandler) Record(c *gin.Context) {
	var req recordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	claims := mustClaims(c)
	saleID, err := h.sales.RecordSale(c.Request.Context(), service.RecordSaleInput{
		RequestID:   req.RequestID,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		TotalPrice:  req.TotalPrice,
		ActorID:     claims.AdminID,
	})
	if err != nil {
		respondSaleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Sale recorded and inventory updated",
		"sale_id": saleID,
	})
}

// respondSaleError maps the error taxonomy onto HTTP statuses. Only the
// infrastructure bucket is safe to retry as-is.
func respondSaleError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found in inventory"})
	case errors.Is(err, domain.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": "Not enough stock available"})
	case errors.Is(err, domain.ErrDuplicateRequest):
		c.JSON(http.StatusConflict, gin.H{"error": "Duplicate request"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to record sale. Please try again.",
			"retryable": true,
		})
	}
}

// List handles GET /api/sales.
func (h *SaleHandler) List(c *gin.Context) {
	sales, err := h.analytics.ListSales(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales data"})
		return
	}

	out := make([]saleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, saleResponse{
			ID:          s.ID,
			ProductID:   s.ProductID,
			ProductName: s.ProductName,
			Quantity:    s.Quantity,
			TotalPrice:  s.TotalPrice,
			SaleDate:    s.SaleDate.Format("2006-01-02 15:04:05"),
		})
	}
	c.JSON(http.StatusOK, out)
}

// Trends handles GET /api/sales/trends.
func (h *SaleHandler) Trends(c *gin.Context) {
	points, err := h.analytics.SalesTrends(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales trends"})
		return
	}

	type trendResponse struct {
		Date  string          `json:"date"`
		Total decimal.Decimal `json:"total"`
	}
	out := make([]trendResponse, 0, len(points))
	for _, p := range points {
		out = append(out, trendResponse{Date: p.Date, Total: p.Total})
	}
	c.JSON(http.StatusOK, out)
}

// TopProducts handles GET /api/sales/top-products.
func (h *SaleHandler) TopProducts(c *gin.Context) {
	products, err := h.analytics.TopProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top products"})
		return
	}

	type topProductResponse struct {
		ProductName   string          `json:"product_name"`
		TotalQuantity int64           `json:"total_quantity"`
		TotalRevenue  decimal.Decimal `json:"total_revenue"`
	}
	out := make([]topProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, topProductResponse{
			ProductName:   p.ProductName,
			TotalQuantity: p.TotalQuantity,
			TotalRevenue:  p.TotalRevenue,
		})
	}
	c.JSON(http.StatusOK, out)
}
