package repository

import (
	"context"

	"payswiftly/internal/domain"
)

// PayoutJobRepository defines the persistence operations for the durable
// payout work queue.
type PayoutJobRepository interface {
	// Enqueue persists a new queued job. Called inside the same database
	// transaction as the PAYOUT_PENDING transition.
	Enqueue(ctx context.Context, job *domain.PayoutJob) error

	// ClaimQueued atomically claims up to limit queued jobs for processing,
	// incrementing their attempt counters. Claimed jobs are not visible to
	// concurrent claimers.
	ClaimQueued(ctx context.Context, limit int) ([]*domain.PayoutJob, error)

	// MarkDone marks a claimed job as successfully dispatched.
	MarkDone(ctx context.Context, id string) error

	// MarkFailed records a dispatch failure with its reason.
	MarkFailed(ctx context.Context, id, reason string) error
}
