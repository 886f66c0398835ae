package postgres

import (
	"context"
	"database/sql"
	"errors"

	"payswiftly/internal/domain"
	"payswiftly/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

const driverColumns = `id, name, phone, email, password_hash, vehicle_type, vehicle_number,
		qr_code_url, pending_balance, paid_balance, created_at, updated_at`

// Create persists a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (id, name, phone, email, password_hash, vehicle_type, vehicle_number,
			qr_code_url, pending_balance, paid_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		driver.Phone,
		driver.Email,
		driver.PasswordHash,
		driver.VehicleType,
		driver.VehicleNumber,
		driver.QRCodeURL,
		driver.PendingBalance,
		driver.PaidBalance,
		driver.CreatedAt,
		driver.UpdatedAt,
	)

	return err
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`

	return r.scanDriver(r.q.QueryRowContext(ctx, query, id))
}

// GetByPhone retrieves a driver by phone number.
func (r *DriverRepository) GetByPhone(ctx context.Context, phone string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE phone = $1`

	return r.scanDriver(r.q.QueryRowContext(ctx, query, phone))
}

// UpdateQRCodeURL stores the generated payment QR code location.
func (r *DriverRepository) UpdateQRCodeURL(ctx context.Context, id, url string) error {
	query := `UPDATE drivers SET qr_code_url = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, url, id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// AddPendingBalance atomically adds delta to the driver's pending balance.
func (r *DriverRepository) AddPendingBalance(ctx context.Context, id string, delta float64) error {
	query := `
		UPDATE drivers
		SET pending_balance = pending_balance + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.ExecContext(ctx, query, delta, id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// MovePendingToPaid atomically moves amount from pending to paid balance.
// The guard on pending_balance makes the move a compare-and-swap: if another
// payout already swept the balance, zero rows match and the caller gets
// ErrInsufficientBalance instead of a negative balance.
func (r *DriverRepository) MovePendingToPaid(ctx context.Context, id string, amount float64) error {
	query := `
		UPDATE drivers
		SET pending_balance = pending_balance - $1,
		    paid_balance = paid_balance + $1,
		    updated_at = NOW()
		WHERE id = $2 AND pending_balance >= $1
	`

	result, err := r.q.ExecContext(ctx, query, amount, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		// Distinguish a missing driver from a balance race.
		var exists bool
		checkQuery := `SELECT EXISTS(SELECT 1 FROM drivers WHERE id = $1)`
		if err := r.q.QueryRowContext(ctx, checkQuery, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrInsufficientBalance
	}

	return nil
}

// ReturnPaidToPending reverses a MovePendingToPaid claim after a payout
// initiation failed. Guarded on paid_balance so a replayed reversal cannot
// push the paid balance negative.
func (r *DriverRepository) ReturnPaidToPending(ctx context.Context, id string, amount float64) error {
	query := `
		UPDATE drivers
		SET pending_balance = pending_balance + $1,
		    paid_balance = paid_balance - $1,
		    updated_at = NOW()
		WHERE id = $2 AND paid_balance >= $1
	`

	result, err := r.q.ExecContext(ctx, query, amount, id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// ListPayoutEligible returns drivers with pending_balance >= threshold,
// highest balances first.
func (r *DriverRepository) ListPayoutEligible(ctx context.Context, threshold float64) ([]*domain.Driver, error) {
	query := `
		SELECT ` + driverColumns + `
		FROM drivers
		WHERE pending_balance >= $1
		ORDER BY pending_balance DESC
	`

	rows, err := r.q.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		driver, err := scanDriverRow(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}

	return drivers, rows.Err()
}

func (r *DriverRepository) scanDriver(row *sql.Row) (*domain.Driver, error) {
	var driver domain.Driver
	err := row.Scan(
		&driver.ID,
		&driver.Name,
		&driver.Phone,
		&driver.Email,
		&driver.PasswordHash,
		&driver.VehicleType,
		&driver.VehicleNumber,
		&driver.QRCodeURL,
		&driver.PendingBalance,
		&driver.PaidBalance,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &driver, nil
}

func scanDriverRow(rows *sql.Rows) (*domain.Driver, error) {
	var driver domain.Driver
	err := rows.Scan(
		&driver.ID,
		&driver.Name,
		&driver.Phone,
		&driver.Email,
		&driver.PasswordHash,
		&driver.VehicleType,
		&driver.VehicleNumber,
		&driver.QRCodeURL,
		&driver.PendingBalance,
		&driver.PaidBalance,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

// requireRow converts a zero-row update into ErrNotFound.
func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
