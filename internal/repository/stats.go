package repository

import (
	"context"

	"payswiftly/internal/domain"
)

// StatsRepository defines the atomic increment operations on the singleton
// admin stats row. Increments are applied with single-statement SQL so they
// are linearizable per field without application-level locking.
type StatsRepository interface {
	// Get returns the current aggregate stats.
	Get(ctx context.Context) (*domain.AdminStats, error)

	// RecordCollection increments the transaction count, revenue and fee
	// totals, and the pending payout total for one completed collection.
	RecordCollection(ctx context.Context, amountPaid, platformFee, driverAmount float64) error

	// RecordPayoutCompleted moves amount from pending to completed payout
	// totals.
	RecordPayoutCompleted(ctx context.Context, amount float64) error

	// RecordPayoutFailed increments the failed payout counter.
	RecordPayoutFailed(ctx context.Context) error

	// RecordDriverRegistered increments the active driver count.
	RecordDriverRegistered(ctx context.Context) error
}
