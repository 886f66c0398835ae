package domain

import "time"

// TransactionStatus represents the current status of a passenger payment.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	// TransactionStatusCompleted is the terminal state of the legacy
	// single-gateway flow where no automatic payout follows collection.
	TransactionStatusCompleted      TransactionStatus = "COMPLETED"
	TransactionStatusFailed         TransactionStatus = "FAILED"
	TransactionStatusPayoutPending  TransactionStatus = "PAYOUT_PENDING"
	TransactionStatusPayoutComplete TransactionStatus = "PAYOUT_COMPLETED"
	TransactionStatusPayoutFailed   TransactionStatus = "PAYOUT_FAILED"
)

// IsTerminal reports whether no further transition may leave the status.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusFailed,
		TransactionStatusPayoutComplete, TransactionStatusPayoutFailed:
		return true
	}
	return false
}

// Payout status markers recorded on the transaction itself, distinct from
// the Payout record's own lifecycle. PendingMinimum flags a payout deferred
// to the batch sweep because the amount was below the gateway minimum.
const (
	TxPayoutStatusProcessing     = "processing"
	TxPayoutStatusPendingMinimum = "pending_minimum"
	TxPayoutStatusFailed         = "failed"
	TxPayoutStatusCompleted      = "completed"
)

// Transaction represents one passenger payment collected on behalf of a
// driver. AmountPaid always equals PlatformFee + DriverAmount to 2 decimal
// places; the fee scheme in force at creation time is persisted so historical
// records stay reproducible after configuration changes.
type Transaction struct {
	ID             string
	DriverID       string
	PassengerPhone string
	AmountPaid     float64
	PlatformFee    float64
	DriverAmount   float64
	FeePercentage  float64
	FeeFixed       float64
	Status         TransactionStatus

	// Provider-assigned identifiers, empty until assigned.
	CollectionID string
	TrackingID   string

	CollectionStatus      string
	PayoutStatus          string
	CollectionCompletedAt *time.Time
	PayoutCompletedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
