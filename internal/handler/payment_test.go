package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"payswiftly/internal/domain"
)

func postPayment(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	h := NewPaymentHandler(nil) // rejected before the service is touched
	router := gin.New()
	router.POST("/v1/payments", h.CreatePayment)

	req := httptest.NewRequest(http.MethodPost, "/v1/payments", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreatePayment_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "malformed json",
			body:    `{not json`,
			wantErr: "invalid request body",
		},
		{
			name:    "missing driver id",
			body:    `{"passenger_phone":"254722000111","amount":1000}`,
			wantErr: "driver_id is required",
		},
		{
			name:    "zero amount",
			body:    `{"driver_id":"driver-1","passenger_phone":"254722000111","amount":0}`,
			wantErr: "amount must be positive",
		},
		{
			name:    "negative amount",
			body:    `{"driver_id":"driver-1","passenger_phone":"254722000111","amount":-50}`,
			wantErr: "amount must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postPayment(t, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantErr, resp.Error)
		})
	}
}

func TestToTransactionResponse(t *testing.T) {
	created := time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)
	tx := &domain.Transaction{
		ID:               "tx-1",
		DriverID:         "driver-1",
		AmountPaid:       1000,
		PlatformFee:      5,
		DriverAmount:     995,
		Status:           domain.TransactionStatusPayoutPending,
		CollectionStatus: "completed",
		PayoutStatus:     "pending",
		CreatedAt:        created,
	}

	resp := toTransactionResponse(tx)

	assert.Equal(t, "PAYOUT_PENDING", resp.Status)
	assert.Equal(t, 995.0, resp.DriverAmount)
	assert.Equal(t, "2026-05-01T10:30:00Z", resp.CreatedAt)
}
