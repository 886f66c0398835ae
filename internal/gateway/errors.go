package gateway

import (
	"errors"
	"fmt"
)

// ErrBelowMinimum is returned when the gateway rejects a disbursement because
// the amount is below its minimum. Distinguished from generic API errors
// because the balance will eventually be swept by the batch payout instead of
// being a permanent failure.
var ErrBelowMinimum = errors.New("amount below gateway minimum")

// APIError is a non-2xx response from the gateway.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway error (status %d): %s", e.StatusCode, e.Message)
}
