package repository

import (
	"context"
	"time"

	"payswiftly/internal/domain"
)

// PayoutRepository defines the persistence operations for payouts.
type PayoutRepository interface {
	// Create persists a new payout record.
	Create(ctx context.Context, payout *domain.Payout) error

	// GetByID retrieves a payout by ID.
	GetByID(ctx context.Context, id string) (*domain.Payout, error)

	// GetByTrackingID retrieves a payout by provider tracking ID.
	GetByTrackingID(ctx context.Context, trackingID string) (*domain.Payout, error)

	// MarkProcessing transitions PENDING -> PROCESSING and attaches the
	// provider tracking ID. Returns false when the payout already left
	// PENDING.
	MarkProcessing(ctx context.Context, id, trackingID string) (bool, error)

	// MarkCompleted transitions PROCESSING -> COMPLETED. Returns false when
	// the payout is not in PROCESSING.
	MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error)

	// MarkFailed records a failure with its reason from PENDING or
	// PROCESSING. Returns false when the payout is already terminal.
	MarkFailed(ctx context.Context, id, reason string) (bool, error)

	// ListByDriver returns a driver's payouts, most recent first.
	ListByDriver(ctx context.Context, driverID string, limit int) ([]*domain.Payout, error)
}
