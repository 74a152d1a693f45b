package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopdeskhq/shopdesk/internal/core/service"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// KPIs handles GET /api/kpis.
func (h *AnalyticsHandler) KPIs(c *gin.Context) {
	report, err := h.analytics.KPIs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch KPIs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalRevenue":   report.TotalRevenue,
		"totalOrders":    report.TotalOrders,
		"totalCustomers": report.TotalCustomers,
		"avgOrderValue":  report.AvgOrderValue,
	})
}

// Customers handles GET /api/customers.
func (h *AnalyticsHandler) Customers(c *gin.Context) {
	customers, err := h.analytics.ListCustomers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customer data"})
		return
	}

	type customerResponse struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Location string `json:"location"`
		JoinDate string `json:"join_date"`
	}
	out := make([]customerResponse, 0, len(customers))
	for _, cust := range customers {
		out = append(out, customerResponse{
			ID:       cust.ID,
			Name:     cust.Name,
			Email:    cust.Email,
			Location: cust.Location,
			JoinDate: cust.JoinDate.Format("2006-01-02"),
		})
	}
	c.JSON(http.StatusOK, out)
}

// CustomerStats handles GET /api/customers/stats.
func (h *AnalyticsHandler) CustomerStats(c *gin.Context) {
	stats, err := h.analytics.CustomerStatsByLocation(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get customer stats"})
		return
	}

	type statResponse struct {
		Location string `json:"location"`
		Count    int64  `json:"count"`
	}
	out := make([]statResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, statResponse{Location: s.Location, Count: s.Count})
	}
	c.JSON(http.StatusOK, out)
}
