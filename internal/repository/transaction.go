package repository

import (
	"context"
	"time"

	"payswiftly/internal/domain"
)

// TransactionRepository defines the persistence operations for transactions.
//
// All status transitions are guarded conditional updates: the write only
// happens if the row is still in the expected prior state. This is what makes
// at-least-once webhook delivery safe without a global lock.
type TransactionRepository interface {
	// Create persists a new transaction.
	Create(ctx context.Context, tx *domain.Transaction) error

	// GetByID retrieves a transaction by ID.
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)

	// GetByCollectionID retrieves a transaction by provider collection ID.
	GetByCollectionID(ctx context.Context, collectionID string) (*domain.Transaction, error)

	// AttachCollection records the provider-assigned collection ID on a
	// transaction that does not have one yet.
	AttachCollection(ctx context.Context, id, collectionID, collectionStatus string) error

	// MarkCollectionCompleted transitions PENDING -> PAYOUT_PENDING and
	// stamps collection_completed_at. Returns false without error when the
	// transaction already left PENDING (duplicate delivery).
	MarkCollectionCompleted(ctx context.Context, id string, at time.Time) (bool, error)

	// MarkCollectionFailed transitions PENDING -> FAILED. Returns false when
	// the transaction already left PENDING.
	MarkCollectionFailed(ctx context.Context, id string) (bool, error)

	// UpdatePayoutStatus records the payout marker (processing,
	// pending_minimum, failed) and tracking ID without touching the main
	// status.
	UpdatePayoutStatus(ctx context.Context, id, payoutStatus, trackingID string) error

	// MarkPayoutCompleted transitions PAYOUT_PENDING -> PAYOUT_COMPLETED and
	// stamps payout_completed_at. Returns false when the transaction is not
	// in PAYOUT_PENDING.
	MarkPayoutCompleted(ctx context.Context, id string, at time.Time) (bool, error)

	// MarkPayoutFailed transitions PAYOUT_PENDING -> PAYOUT_FAILED. Returns
	// false when the transaction is not in PAYOUT_PENDING.
	MarkPayoutFailed(ctx context.Context, id string) (bool, error)

	// ListByDriver returns a driver's transactions, most recent first.
	ListByDriver(ctx context.Context, driverID string, limit int) ([]*domain.Transaction, error)

	// ListStalePending returns transactions still PENDING that were created
	// before the cutoff and have a collection ID to query the gateway with.
	ListStalePending(ctx context.Context, before time.Time, limit int) ([]*domain.Transaction, error)

	// ListStalePayoutPending returns transactions stuck in PAYOUT_PENDING
	// whose payout was initiated (tracking ID assigned) before the cutoff but
	// never resolved by a webhook.
	ListStalePayoutPending(ctx context.Context, before time.Time, limit int) ([]*domain.Transaction, error)
}
