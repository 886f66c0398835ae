package postgres

import (
	"context"
	"database/sql"

	"payswiftly/internal/domain"
)

// StatsRepository is a PostgreSQL implementation of repository.StatsRepository.
// All writes are single-statement atomic increments against the singleton row.
type StatsRepository struct {
	q Querier
}

// NewStatsRepository creates a new PostgreSQL stats repository.
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{q: db}
}

// NewStatsRepositoryWithTx creates a stats repository using a transaction.
func NewStatsRepositoryWithTx(tx *sql.Tx) *StatsRepository {
	return &StatsRepository{q: tx}
}

// Get returns the current aggregate stats, zero-valued if the row does not
// exist yet.
func (r *StatsRepository) Get(ctx context.Context) (*domain.AdminStats, error) {
	query := `
		SELECT total_transactions, total_revenue, total_platform_fees, active_drivers,
			total_payouts, pending_payouts, failed_payouts, updated_at
		FROM admin_stats WHERE id = 'global'
	`

	var stats domain.AdminStats
	err := r.q.QueryRowContext(ctx, query).Scan(
		&stats.TotalTransactions,
		&stats.TotalRevenue,
		&stats.TotalPlatformFees,
		&stats.ActiveDrivers,
		&stats.TotalPayouts,
		&stats.PendingPayouts,
		&stats.FailedPayouts,
		&stats.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return &domain.AdminStats{}, nil
		}
		return nil, err
	}

	return &stats, nil
}

// RecordCollection increments the transaction count, revenue and fee totals,
// and the pending payout total for one completed collection.
func (r *StatsRepository) RecordCollection(ctx context.Context, amountPaid, platformFee, driverAmount float64) error {
	query := `
		INSERT INTO admin_stats (id, total_transactions, total_revenue, total_platform_fees,
			pending_payouts, updated_at)
		VALUES ('global', 1, $1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET
			total_transactions = admin_stats.total_transactions + 1,
			total_revenue = admin_stats.total_revenue + $1,
			total_platform_fees = admin_stats.total_platform_fees + $2,
			pending_payouts = admin_stats.pending_payouts + $3,
			updated_at = NOW()
	`

	_, err := r.q.ExecContext(ctx, query, amountPaid, platformFee, driverAmount)
	return err
}

// RecordPayoutCompleted moves amount from pending to completed payout totals.
func (r *StatsRepository) RecordPayoutCompleted(ctx context.Context, amount float64) error {
	query := `
		UPDATE admin_stats
		SET total_payouts = total_payouts + $1,
		    pending_payouts = GREATEST(pending_payouts - $1, 0),
		    updated_at = NOW()
		WHERE id = 'global'
	`

	_, err := r.q.ExecContext(ctx, query, amount)
	return err
}

// RecordPayoutFailed increments the failed payout counter.
func (r *StatsRepository) RecordPayoutFailed(ctx context.Context) error {
	query := `
		UPDATE admin_stats
		SET failed_payouts = failed_payouts + 1, updated_at = NOW()
		WHERE id = 'global'
	`

	_, err := r.q.ExecContext(ctx, query)
	return err
}

// RecordDriverRegistered increments the active driver count.
func (r *StatsRepository) RecordDriverRegistered(ctx context.Context) error {
	query := `
		INSERT INTO admin_stats (id, active_drivers, updated_at)
		VALUES ('global', 1, NOW())
		ON CONFLICT (id) DO UPDATE SET
			active_drivers = admin_stats.active_drivers + 1,
			updated_at = NOW()
	`

	_, err := r.q.ExecContext(ctx, query)
	return err
}
