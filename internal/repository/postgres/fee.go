package postgres

import (
	"context"
	"database/sql"
	"errors"

	"payswiftly/internal/domain"
	"payswiftly/internal/repository"
)

// PlatformFeeRepository is a PostgreSQL implementation of
// repository.PlatformFeeRepository.
type PlatformFeeRepository struct {
	q Querier
}

// NewPlatformFeeRepository creates a new PostgreSQL platform fee repository.
func NewPlatformFeeRepository(db *sql.DB) *PlatformFeeRepository {
	return &PlatformFeeRepository{q: db}
}

// NewPlatformFeeRepositoryWithTx creates a platform fee repository using a
// transaction.
func NewPlatformFeeRepositoryWithTx(tx *sql.Tx) *PlatformFeeRepository {
	return &PlatformFeeRepository{q: tx}
}

// Create appends a fee collection record. The unique constraint on
// transaction_id backs up the state-machine guard: even a racing duplicate
// transition cannot record the same fee twice.
func (r *PlatformFeeRepository) Create(ctx context.Context, fee *domain.PlatformFee) error {
	query := `
		INSERT INTO platform_fees (id, transaction_id, amount, fee_type,
			percentage_applied, fixed_amount_applied, collected_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		fee.ID,
		fee.TransactionID,
		fee.Amount,
		fee.FeeType,
		fee.PercentageApplied,
		fee.FixedAmountApplied,
		fee.CollectedAt,
		fee.CreatedAt,
	)

	return err
}

// GetByTransactionID retrieves the fee recorded for a transaction.
func (r *PlatformFeeRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.PlatformFee, error) {
	query := `
		SELECT id, transaction_id, amount, fee_type, percentage_applied,
			fixed_amount_applied, collected_at, created_at
		FROM platform_fees WHERE transaction_id = $1
	`

	var fee domain.PlatformFee
	err := r.q.QueryRowContext(ctx, query, transactionID).Scan(
		&fee.ID,
		&fee.TransactionID,
		&fee.Amount,
		&fee.FeeType,
		&fee.PercentageApplied,
		&fee.FixedAmountApplied,
		&fee.CollectedAt,
		&fee.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &fee, nil
}
