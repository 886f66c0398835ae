package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"payswiftly/internal/domain"
	"payswiftly/internal/repository"
)

// PayoutRepository is a PostgreSQL implementation of repository.PayoutRepository.
type PayoutRepository struct {
	q Querier
}

// NewPayoutRepository creates a new PostgreSQL payout repository.
func NewPayoutRepository(db *sql.DB) *PayoutRepository {
	return &PayoutRepository{q: db}
}

// NewPayoutRepositoryWithTx creates a payout repository using a transaction.
func NewPayoutRepositoryWithTx(tx *sql.Tx) *PayoutRepository {
	return &PayoutRepository{q: tx}
}

const payoutColumns = `id, transaction_id, driver_id, amount, tracking_id, status,
		failure_reason, initiated_at, completed_at, created_at, updated_at`

// Create persists a new payout record.
func (r *PayoutRepository) Create(ctx context.Context, payout *domain.Payout) error {
	query := `
		INSERT INTO payouts (id, transaction_id, driver_id, amount, tracking_id, status,
			failure_reason, initiated_at, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		payout.ID,
		payout.TransactionID,
		payout.DriverID,
		payout.Amount,
		payout.TrackingID,
		payout.Status,
		payout.FailureReason,
		payout.InitiatedAt,
		payout.CreatedAt,
		payout.UpdatedAt,
	)

	return err
}

// GetByID retrieves a payout by ID.
func (r *PayoutRepository) GetByID(ctx context.Context, id string) (*domain.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE id = $1`

	return scanPayout(r.q.QueryRowContext(ctx, query, id))
}

// GetByTrackingID retrieves a payout by provider tracking ID.
func (r *PayoutRepository) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE tracking_id = $1`

	return scanPayout(r.q.QueryRowContext(ctx, query, trackingID))
}

// MarkProcessing transitions PENDING -> PROCESSING with the tracking ID.
func (r *PayoutRepository) MarkProcessing(ctx context.Context, id, trackingID string) (bool, error) {
	query := `
		UPDATE payouts
		SET status = $1, tracking_id = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	return r.guardedUpdate(ctx, query,
		domain.PayoutStatusProcessing, trackingID, id, domain.PayoutStatusPending)
}

// MarkCompleted transitions PROCESSING -> COMPLETED.
func (r *PayoutRepository) MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE payouts
		SET status = $1, completed_at = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	return r.guardedUpdate(ctx, query,
		domain.PayoutStatusCompleted, at, id, domain.PayoutStatusProcessing)
}

// MarkFailed records a failure with its reason from PENDING or PROCESSING.
func (r *PayoutRepository) MarkFailed(ctx context.Context, id, reason string) (bool, error) {
	query := `
		UPDATE payouts
		SET status = $1, failure_reason = $2, updated_at = NOW()
		WHERE id = $3 AND status IN ($4, $5)
	`

	return r.guardedUpdate(ctx, query,
		domain.PayoutStatusFailed, reason, id,
		domain.PayoutStatusPending, domain.PayoutStatusProcessing)
}

// ListByDriver returns a driver's payouts, most recent first.
func (r *PayoutRepository) ListByDriver(ctx context.Context, driverID string, limit int) ([]*domain.Payout, error) {
	query := `
		SELECT ` + payoutColumns + `
		FROM payouts
		WHERE driver_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.QueryContext(ctx, query, driverID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payouts []*domain.Payout
	for rows.Next() {
		payout, err := scanPayoutRow(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, payout)
	}

	return payouts, rows.Err()
}

func (r *PayoutRepository) guardedUpdate(ctx context.Context, query string, args ...any) (bool, error) {
	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func scanPayout(row *sql.Row) (*domain.Payout, error) {
	var payout domain.Payout
	var transactionID sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&payout.ID,
		&transactionID,
		&payout.DriverID,
		&payout.Amount,
		&payout.TrackingID,
		&payout.Status,
		&payout.FailureReason,
		&payout.InitiatedAt,
		&completedAt,
		&payout.CreatedAt,
		&payout.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	payout.TransactionID = transactionID.String
	if completedAt.Valid {
		payout.CompletedAt = &completedAt.Time
	}

	return &payout, nil
}

func scanPayoutRow(rows *sql.Rows) (*domain.Payout, error) {
	var payout domain.Payout
	var transactionID sql.NullString
	var completedAt sql.NullTime

	err := rows.Scan(
		&payout.ID,
		&transactionID,
		&payout.DriverID,
		&payout.Amount,
		&payout.TrackingID,
		&payout.Status,
		&payout.FailureReason,
		&payout.InitiatedAt,
		&completedAt,
		&payout.CreatedAt,
		&payout.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	payout.TransactionID = transactionID.String
	if completedAt.Valid {
		payout.CompletedAt = &completedAt.Time
	}

	return &payout, nil
}
