package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"payswiftly/internal/service"
)

// AdminHandler handles HTTP requests for the operator dashboard.
type AdminHandler struct {
	sweepService *service.BatchPayoutService
	statsService *service.StatsService
	minThreshold float64
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(sweepService *service.BatchPayoutService, statsService *service.StatsService, minThreshold float64) *AdminHandler {
	return &AdminHandler{
		sweepService: sweepService,
		statsService: statsService,
		minThreshold: minThreshold,
	}
}

// AdminStatsResponse is the HTTP representation of the revenue aggregate.
type AdminStatsResponse struct {
	TotalTransactions int64   `json:"total_transactions"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalPlatformFees float64 `json:"total_platform_fees"`
	ActiveDrivers     int64   `json:"active_drivers"`
	TotalPayouts      float64 `json:"total_payouts"`
	PendingPayouts    float64 `json:"pending_payouts"`
	FailedPayouts     int64   `json:"failed_payouts"`
	UpdatedAt         string  `json:"updated_at"`
}

// TriggerBatchPayouts handles POST /v1/admin/payouts/batch
func (h *AdminHandler) TriggerBatchPayouts(c *gin.Context) {
	summary, err := h.sweepService.Run(c.Request.Context(), h.minThreshold)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, summary)
}

// GetStats handles GET /v1/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, AdminStatsResponse{
		TotalTransactions: stats.TotalTransactions,
		TotalRevenue:      stats.TotalRevenue,
		TotalPlatformFees: stats.TotalPlatformFees,
		ActiveDrivers:     stats.ActiveDrivers,
		TotalPayouts:      stats.TotalPayouts,
		PendingPayouts:    stats.PendingPayouts,
		FailedPayouts:     stats.FailedPayouts,
		UpdatedAt:         stats.UpdatedAt.Format(time.RFC3339),
	})
}
