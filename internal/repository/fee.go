package repository

import (
	"context"

	"payswiftly/internal/domain"
)

// PlatformFeeRepository defines the persistence operations for the
// append-only platform fee ledger.
type PlatformFeeRepository interface {
	// Create appends a fee collection record.
	Create(ctx context.Context, fee *domain.PlatformFee) error

	// GetByTransactionID retrieves the fee recorded for a transaction.
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.PlatformFee, error)
}
