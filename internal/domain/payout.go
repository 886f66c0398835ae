package domain

import "time"

// PayoutStatus represents the current status of a disbursement attempt.
type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "PENDING"
	PayoutStatusProcessing PayoutStatus = "PROCESSING"
	PayoutStatusCompleted  PayoutStatus = "COMPLETED"
	PayoutStatusFailed     PayoutStatus = "FAILED"
	// PayoutStatusReversed is recorded when the gateway claws back a
	// completed disbursement. Modeled for completeness; nothing in the
	// automatic flow produces it.
	PayoutStatusReversed PayoutStatus = "REVERSED"
)

// Payout represents one disbursement attempt to a driver. Immediate payouts
// are tied 1:1 to the transaction that funded them; batch-sweep payouts
// disburse an accumulated balance and carry no transaction ID.
type Payout struct {
	ID            string
	TransactionID string // empty for batch payouts
	DriverID      string
	Amount        float64
	TrackingID    string
	Status        PayoutStatus
	FailureReason string
	InitiatedAt   time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
