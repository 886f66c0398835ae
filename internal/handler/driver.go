package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"payswiftly/internal/domain"
	"payswiftly/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverService *service.DriverService
	authService   *service.AuthService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService, authService *service.AuthService) *DriverHandler {
	return &DriverHandler{driverService: driverService, authService: authService}
}

// RegisterDriverRequest is the HTTP request body for driver registration.
type RegisterDriverRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	VehicleType   string `json:"vehicle_type"`
	VehicleNumber string `json:"vehicle_number"`
}

// LoginRequest is the HTTP request body for driver login.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// DriverResponse is the HTTP response for driver operations.
type DriverResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email,omitempty"`
	VehicleType    string  `json:"vehicle_type"`
	VehicleNumber  string  `json:"vehicle_number"`
	QRCodeURL      string  `json:"qr_code_url"`
	PendingBalance float64 `json:"pending_balance"`
	PaidBalance    float64 `json:"paid_balance"`
}

// LoginResponse is the HTTP response for a successful login.
type LoginResponse struct {
	Token  string         `json:"token"`
	Driver DriverResponse `json:"driver"`
}

// DriverCardResponse is the passenger-facing view of a driver.
type DriverCardResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	VehicleType   string `json:"vehicle_type"`
	VehicleNumber string `json:"vehicle_number"`
	QRCodeURL     string `json:"qr_code_url"`
}

// Register handles POST /v1/drivers/register
func (h *DriverHandler) Register(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
		return
	}

	driver, err := h.driverService.Register(c.Request.Context(), service.RegisterDriverRequest{
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		Password:      req.Password,
		VehicleType:   req.VehicleType,
		VehicleNumber: req.VehicleNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toDriverResponse(driver))
}

// Login handles POST /v1/drivers/login
func (h *DriverHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, driver, err := h.authService.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, LoginResponse{
		Token:  token,
		Driver: toDriverResponse(driver),
	})
}

// GetDriver handles GET /v1/drivers/:id
//
// This is the public pay-page endpoint, so it serves the cached card without
// balances or contact details.
func (h *DriverHandler) GetDriver(c *gin.Context) {
	driverID := c.Param("id")

	card, err := h.driverService.GetPublicCard(c.Request.Context(), driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, DriverCardResponse{
		ID:            card.ID,
		Name:          card.Name,
		VehicleType:   card.VehicleType,
		VehicleNumber: card.VehicleNumber,
		QRCodeURL:     card.QRCodeURL,
	})
}

// ListTransactions handles GET /v1/drivers/:id/transactions
func (h *DriverHandler) ListTransactions(c *gin.Context) {
	driverID := c.Param("id")

	transactions, err := h.driverService.Transactions(c.Request.Context(), driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		resp = append(resp, toTransactionResponse(tx))
	}
	respondJSON(c, http.StatusOK, resp)
}

// ListPayouts handles GET /v1/drivers/:id/payouts
func (h *DriverHandler) ListPayouts(c *gin.Context) {
	driverID := c.Param("id")

	payouts, err := h.driverService.Payouts(c.Request.Context(), driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]PayoutResponse, 0, len(payouts))
	for _, p := range payouts {
		resp = append(resp, toPayoutResponse(p))
	}
	respondJSON(c, http.StatusOK, resp)
}

// PayoutResponse is the HTTP representation of a disbursement attempt.
type PayoutResponse struct {
	ID            string  `json:"id"`
	TransactionID string  `json:"transaction_id,omitempty"`
	DriverID      string  `json:"driver_id"`
	Amount        float64 `json:"amount"`
	TrackingID    string  `json:"tracking_id,omitempty"`
	Status        string  `json:"status"`
	FailureReason string  `json:"failure_reason,omitempty"`
	InitiatedAt   string  `json:"initiated_at"`
	CompletedAt   string  `json:"completed_at,omitempty"`
}

func toDriverResponse(driver *domain.Driver) DriverResponse {
	return DriverResponse{
		ID:             driver.ID,
		Name:           driver.Name,
		Phone:          driver.Phone,
		Email:          driver.Email,
		VehicleType:    string(driver.VehicleType),
		VehicleNumber:  driver.VehicleNumber,
		QRCodeURL:      driver.QRCodeURL,
		PendingBalance: driver.PendingBalance,
		PaidBalance:    driver.PaidBalance,
	}
}

func toPayoutResponse(p *domain.Payout) PayoutResponse {
	resp := PayoutResponse{
		ID:            p.ID,
		TransactionID: p.TransactionID,
		DriverID:      p.DriverID,
		Amount:        p.Amount,
		TrackingID:    p.TrackingID,
		Status:        string(p.Status),
		FailureReason: p.FailureReason,
		InitiatedAt:   p.InitiatedAt.Format(time.RFC3339),
	}
	if p.CompletedAt != nil {
		resp.CompletedAt = p.CompletedAt.Format(time.RFC3339)
	}
	return resp
}
