package domain

import "time"

// PayoutJobStatus represents the state of a queued payout work item.
type PayoutJobStatus string

const (
	PayoutJobQueued PayoutJobStatus = "QUEUED"
	PayoutJobDone   PayoutJobStatus = "DONE"
	PayoutJobFailed PayoutJobStatus = "FAILED"
)

// PayoutJob is a durable work item enqueued in the same database transaction
// as the PAYOUT_PENDING transition that triggers it. The dispatch loop claims
// queued jobs and hands them to the payout orchestrator, so a crash between
// the transition and the gateway call cannot silently drop a payout.
type PayoutJob struct {
	ID            string
	TransactionID string
	DriverID      string
	Amount        float64
	Status        PayoutJobStatus
	Attempts      int
	LastError     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
