package domain

import "time"

// AdminStats is the singleton revenue aggregate. It is mutated only through
// atomic increments driven by transaction and payout events, never recomputed
// by a full scan in the hot path.
type AdminStats struct {
	TotalTransactions int64
	TotalRevenue      float64
	TotalPlatformFees float64
	ActiveDrivers     int64
	TotalPayouts      float64
	PendingPayouts    float64
	FailedPayouts     int64
	UpdatedAt         time.Time
}
