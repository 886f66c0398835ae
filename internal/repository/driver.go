package repository

import (
	"context"

	"payswiftly/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
//
// Balance mutations go through AddPendingBalance and MovePendingToPaid only;
// both are atomic at the database level so concurrent webhook deliveries and
// sweep runs never lose an update.
type DriverRepository interface {
	// Create adds a new driver.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetByPhone retrieves a driver by phone number.
	GetByPhone(ctx context.Context, phone string) (*domain.Driver, error)

	// UpdateQRCodeURL stores the generated payment QR code location.
	UpdateQRCodeURL(ctx context.Context, id, url string) error

	// AddPendingBalance atomically adds delta to the driver's pending balance.
	AddPendingBalance(ctx context.Context, id string, delta float64) error

	// MovePendingToPaid atomically moves amount from pending to paid balance.
	// Returns ErrInsufficientBalance if the pending balance no longer covers
	// the amount (another payout already claimed it). The claim is the mutual
	// exclusion point between the immediate and batch payout paths: whoever
	// moved the balance is the only path allowed to disburse it.
	MovePendingToPaid(ctx context.Context, id string, amount float64) error

	// ReturnPaidToPending reverses a MovePendingToPaid claim after a payout
	// initiation failed, so the balance is available again for later attempts.
	ReturnPaidToPending(ctx context.Context, id string, amount float64) error

	// ListPayoutEligible returns drivers with pending_balance >= threshold,
	// highest balances first.
	ListPayoutEligible(ctx context.Context, threshold float64) ([]*domain.Driver, error)
}
