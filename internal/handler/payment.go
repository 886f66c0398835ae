package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"payswiftly/internal/domain"
	"payswiftly/internal/service"
)

// PaymentHandler handles HTTP requests for passenger payments.
type PaymentHandler struct {
	transactionService *service.TransactionService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(transactionService *service.TransactionService) *PaymentHandler {
	return &PaymentHandler{transactionService: transactionService}
}

// CreatePaymentRequest is the HTTP request body for initiating a payment.
type CreatePaymentRequest struct {
	DriverID       string  `json:"driver_id"`
	PassengerPhone string  `json:"passenger_phone"`
	Amount         float64 `json:"amount"`
}

// TransactionResponse is the HTTP representation of a transaction.
type TransactionResponse struct {
	ID               string  `json:"id"`
	DriverID         string  `json:"driver_id"`
	AmountPaid       float64 `json:"amount_paid"`
	PlatformFee      float64 `json:"platform_fee"`
	DriverAmount     float64 `json:"driver_amount"`
	Status           string  `json:"status"`
	CollectionStatus string  `json:"collection_status,omitempty"`
	PayoutStatus     string  `json:"payout_status,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// CreatePayment handles POST /v1/payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.DriverID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "driver_id is required"})
		return
	}

	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must be positive"})
		return
	}

	tx, err := h.transactionService.Create(c.Request.Context(), service.CreatePaymentRequest{
		DriverID:       req.DriverID,
		PassengerPhone: req.PassengerPhone,
		Amount:         req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTransactionResponse(tx))
}

// GetPayment handles GET /v1/payments/:id
//
// The pay page polls this while waiting for the STK push to resolve.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	transactionID := c.Param("id")

	tx, err := h.transactionService.GetByID(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTransactionResponse(tx))
}

func toTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:               tx.ID,
		DriverID:         tx.DriverID,
		AmountPaid:       tx.AmountPaid,
		PlatformFee:      tx.PlatformFee,
		DriverAmount:     tx.DriverAmount,
		Status:           string(tx.Status),
		CollectionStatus: tx.CollectionStatus,
		PayoutStatus:     tx.PayoutStatus,
		CreatedAt:        tx.CreatedAt.Format(time.RFC3339),
	}
}
