package postgres

import (
	"context"
	"database/sql"

	"payswiftly/internal/domain"
)

// PayoutJobRepository is a PostgreSQL implementation of
// repository.PayoutJobRepository.
type PayoutJobRepository struct {
	q Querier
}

// NewPayoutJobRepository creates a new PostgreSQL payout job repository.
func NewPayoutJobRepository(db *sql.DB) *PayoutJobRepository {
	return &PayoutJobRepository{q: db}
}

// NewPayoutJobRepositoryWithTx creates a payout job repository using a
// transaction.
func NewPayoutJobRepositoryWithTx(tx *sql.Tx) *PayoutJobRepository {
	return &PayoutJobRepository{q: tx}
}

// Enqueue persists a new queued job.
func (r *PayoutJobRepository) Enqueue(ctx context.Context, job *domain.PayoutJob) error {
	query := `
		INSERT INTO payout_jobs (id, transaction_id, driver_id, amount, status,
			attempts, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		job.ID,
		job.TransactionID,
		job.DriverID,
		job.Amount,
		job.Status,
		job.Attempts,
		job.LastError,
		job.CreatedAt,
		job.UpdatedAt,
	)

	return err
}

// ClaimQueued atomically claims up to limit queued jobs. SKIP LOCKED keeps
// concurrent dispatchers from claiming the same job; the claim and the
// attempt increment happen in one statement so a crash after the claim shows
// up in the attempt counter.
func (r *PayoutJobRepository) ClaimQueued(ctx context.Context, limit int) ([]*domain.PayoutJob, error) {
	query := `
		UPDATE payout_jobs
		SET attempts = attempts + 1, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM payout_jobs
			WHERE status = $1
			ORDER BY created_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, transaction_id, driver_id, amount, status, attempts, last_error,
			created_at, updated_at
	`

	rows, err := r.q.QueryContext(ctx, query, domain.PayoutJobQueued, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*domain.PayoutJob
	for rows.Next() {
		var job domain.PayoutJob
		err := rows.Scan(
			&job.ID,
			&job.TransactionID,
			&job.DriverID,
			&job.Amount,
			&job.Status,
			&job.Attempts,
			&job.LastError,
			&job.CreatedAt,
			&job.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, &job)
	}

	return jobs, rows.Err()
}

// MarkDone marks a claimed job as successfully dispatched.
func (r *PayoutJobRepository) MarkDone(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, domain.PayoutJobDone, "")
}

// MarkFailed records a dispatch failure with its reason.
func (r *PayoutJobRepository) MarkFailed(ctx context.Context, id, reason string) error {
	return r.setStatus(ctx, id, domain.PayoutJobFailed, reason)
}

func (r *PayoutJobRepository) setStatus(ctx context.Context, id string, status domain.PayoutJobStatus, reason string) error {
	query := `
		UPDATE payout_jobs
		SET status = $1, last_error = $2, updated_at = NOW()
		WHERE id = $3
	`

	_, err := r.q.ExecContext(ctx, query, status, reason, id)
	return err
}
