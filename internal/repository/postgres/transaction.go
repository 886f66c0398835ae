package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"payswiftly/internal/domain"
	"payswiftly/internal/repository"
)

// TransactionRepository is a PostgreSQL implementation of
// repository.TransactionRepository.
type TransactionRepository struct {
	q Querier
}

// NewTransactionRepository creates a new PostgreSQL transaction repository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{q: db}
}

// NewTransactionRepositoryWithTx creates a transaction repository using a
// database transaction.
func NewTransactionRepositoryWithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

const transactionColumns = `id, driver_id, passenger_phone, amount_paid, platform_fee, driver_amount,
		fee_percentage, fee_fixed, status, collection_id, tracking_id,
		collection_status, payout_status, collection_completed_at, payout_completed_at,
		created_at, updated_at`

// Create persists a new transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, driver_id, passenger_phone, amount_paid, platform_fee, driver_amount,
			fee_percentage, fee_fixed, status, collection_id, tracking_id,
			collection_status, payout_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.q.ExecContext(ctx, query,
		tx.ID,
		tx.DriverID,
		tx.PassengerPhone,
		tx.AmountPaid,
		tx.PlatformFee,
		tx.DriverAmount,
		tx.FeePercentage,
		tx.FeeFixed,
		tx.Status,
		tx.CollectionID,
		tx.TrackingID,
		tx.CollectionStatus,
		tx.PayoutStatus,
		tx.CreatedAt,
		tx.UpdatedAt,
	)

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	return scanTransaction(r.q.QueryRowContext(ctx, query, id))
}

// GetByCollectionID retrieves a transaction by provider collection ID.
func (r *TransactionRepository) GetByCollectionID(ctx context.Context, collectionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE collection_id = $1`

	return scanTransaction(r.q.QueryRowContext(ctx, query, collectionID))
}

// AttachCollection records the provider-assigned collection ID. Guarded so a
// late duplicate initiation response cannot overwrite an existing ID.
func (r *TransactionRepository) AttachCollection(ctx context.Context, id, collectionID, collectionStatus string) error {
	query := `
		UPDATE transactions
		SET collection_id = $1, collection_status = $2, updated_at = NOW()
		WHERE id = $3 AND collection_id = ''
	`

	result, err := r.q.ExecContext(ctx, query, collectionID, collectionStatus, id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// MarkCollectionCompleted transitions PENDING -> PAYOUT_PENDING. The status
// guard makes replayed COMPLETE webhooks a no-op: zero rows affected means
// the transition already happened.
func (r *TransactionRepository) MarkCollectionCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE transactions
		SET status = $1, collection_status = 'completed',
		    collection_completed_at = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	return r.guardedUpdate(ctx, query,
		domain.TransactionStatusPayoutPending, at, id, domain.TransactionStatusPending)
}

// MarkCollectionFailed transitions PENDING -> FAILED.
func (r *TransactionRepository) MarkCollectionFailed(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE transactions
		SET status = $1, collection_status = 'failed', updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	return r.guardedUpdate(ctx, query,
		domain.TransactionStatusFailed, id, domain.TransactionStatusPending)
}

// UpdatePayoutStatus records the payout marker and tracking ID without
// touching the main status. Only applies while the payout is still pending.
func (r *TransactionRepository) UpdatePayoutStatus(ctx context.Context, id, payoutStatus, trackingID string) error {
	query := `
		UPDATE transactions
		SET payout_status = $1,
		    tracking_id = CASE WHEN $2 <> '' THEN $2 ELSE tracking_id END,
		    updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	result, err := r.q.ExecContext(ctx, query,
		payoutStatus, trackingID, id, domain.TransactionStatusPayoutPending)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// MarkPayoutCompleted transitions PAYOUT_PENDING -> PAYOUT_COMPLETED.
func (r *TransactionRepository) MarkPayoutCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE transactions
		SET status = $1, payout_status = 'completed',
		    payout_completed_at = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	return r.guardedUpdate(ctx, query,
		domain.TransactionStatusPayoutComplete, at, id, domain.TransactionStatusPayoutPending)
}

// MarkPayoutFailed transitions PAYOUT_PENDING -> PAYOUT_FAILED.
func (r *TransactionRepository) MarkPayoutFailed(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE transactions
		SET status = $1, payout_status = 'failed', updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	return r.guardedUpdate(ctx, query,
		domain.TransactionStatusPayoutFailed, id, domain.TransactionStatusPayoutPending)
}

// ListByDriver returns a driver's transactions, most recent first.
func (r *TransactionRepository) ListByDriver(ctx context.Context, driverID string, limit int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE driver_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.QueryContext(ctx, query, driverID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListStalePending returns transactions still PENDING created before the
// cutoff that have a collection ID to query the gateway with.
func (r *TransactionRepository) ListStalePending(ctx context.Context, before time.Time, limit int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE status = $1 AND collection_id <> '' AND created_at < $2
		ORDER BY created_at ASC
		LIMIT $3
	`

	rows, err := r.q.QueryContext(ctx, query, domain.TransactionStatusPending, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListStalePayoutPending returns transactions stuck in PAYOUT_PENDING with a
// tracking ID assigned, untouched since before the cutoff. Their payout
// outcome can be recovered by querying the gateway.
func (r *TransactionRepository) ListStalePayoutPending(ctx context.Context, before time.Time, limit int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE status = $1 AND tracking_id <> '' AND updated_at < $2
		ORDER BY updated_at ASC
		LIMIT $3
	`

	rows, err := r.q.QueryContext(ctx, query, domain.TransactionStatusPayoutPending, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *TransactionRepository) guardedUpdate(ctx context.Context, query string, args ...any) (bool, error) {
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

func scanTransaction(row *sql.Row) (*domain.Transaction, error) {
	var tx domain.Transaction
	var collectionCompletedAt, payoutCompletedAt sql.NullTime

	err := row.Scan(
		&tx.ID,
		&tx.DriverID,
		&tx.PassengerPhone,
		&tx.AmountPaid,
		&tx.PlatformFee,
		&tx.DriverAmount,
		&tx.FeePercentage,
		&tx.FeeFixed,
		&tx.Status,
		&tx.CollectionID,
		&tx.TrackingID,
		&tx.CollectionStatus,
		&tx.PayoutStatus,
		&collectionCompletedAt,
		&payoutCompletedAt,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if collectionCompletedAt.Valid {
		tx.CollectionCompletedAt = &collectionCompletedAt.Time
	}
	if payoutCompletedAt.Valid {
		tx.PayoutCompletedAt = &payoutCompletedAt.Time
	}

	return &tx, nil
}

func scanTransactions(rows *sql.Rows) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction

	for rows.Next() {
		var tx domain.Transaction
		var collectionCompletedAt, payoutCompletedAt sql.NullTime

		err := rows.Scan(
			&tx.ID,
			&tx.DriverID,
			&tx.PassengerPhone,
			&tx.AmountPaid,
			&tx.PlatformFee,
			&tx.DriverAmount,
			&tx.FeePercentage,
			&tx.FeeFixed,
			&tx.Status,
			&tx.CollectionID,
			&tx.TrackingID,
			&tx.CollectionStatus,
			&tx.PayoutStatus,
			&collectionCompletedAt,
			&payoutCompletedAt,
			&tx.CreatedAt,
			&tx.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if collectionCompletedAt.Valid {
			tx.CollectionCompletedAt = &collectionCompletedAt.Time
		}
		if payoutCompletedAt.Valid {
			tx.PayoutCompletedAt = &payoutCompletedAt.Time
		}

		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}
