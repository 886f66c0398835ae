package domain

import "time"

// Fee types recorded on a PlatformFee row.
const (
	FeeTypePercentage = "percentage"
	FeeTypeFixed      = "fixed"
)

// PlatformFee is an append-only ledger row recording one fee collection
// event. Rows are never mutated after creation.
type PlatformFee struct {
	ID                 string
	TransactionID      string
	Amount             float64
	FeeType            string
	PercentageApplied  float64
	FixedAmountApplied float64
	CollectedAt        time.Time
	CreatedAt          time.Time
}

// FeeBreakdown is the result of applying the platform fee scheme to a
// payment amount.
type FeeBreakdown struct {
	Total         float64
	PlatformFee   float64
	DriverAmount  float64
	FeePercentage float64
	FeeFixed      float64
}
