package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"payswiftly/internal/domain"
	"payswiftly/internal/repository"
)

func newTransactionRepo(t *testing.T) (*TransactionRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("creating sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewTransactionRepository(db), mock
}

func TestMarkCollectionCompleted_Applied(t *testing.T) {
	t.Parallel()

	repo, mock := newTransactionRepo(t)
	at := time.Now()
	mock.ExpectExec("UPDATE transactions").
		WithArgs(domain.TransactionStatusPayoutPending, at, "tx-1", domain.TransactionStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	applied, err := repo.MarkCollectionCompleted(context.Background(), "tx-1", at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Error("applied = false, want true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMarkCollectionCompleted_ReplayNotApplied(t *testing.T) {
	t.Parallel()

	repo, mock := newTransactionRepo(t)
	mock.ExpectExec("UPDATE transactions").
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := repo.MarkCollectionCompleted(context.Background(), "tx-1", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied {
		t.Error("applied = true for a replay, want false")
	}
}

func TestMarkPayoutCompleted_GuardsOnPayoutPending(t *testing.T) {
	t.Parallel()

	repo, mock := newTransactionRepo(t)
	at := time.Now()
	mock.ExpectExec("UPDATE transactions").
		WithArgs(domain.TransactionStatusPayoutComplete, at, "tx-1", domain.TransactionStatusPayoutPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	applied, err := repo.MarkPayoutCompleted(context.Background(), "tx-1", at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Error("applied = false, want true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAttachCollection_AlreadyAttached(t *testing.T) {
	t.Parallel()

	repo, mock := newTransactionRepo(t)
	mock.ExpectExec("UPDATE transactions").
		WithArgs("col-2", "pending", "tx-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AttachCollection(context.Background(), "tx-1", "col-2", "pending")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound when a collection id is already set", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newTransactionRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetByID_ScansAllColumns(t *testing.T) {
	t.Parallel()

	repo, mock := newTransactionRepo(t)
	now := time.Now()
	completedAt := now.Add(-time.Minute)

	rows := sqlmock.NewRows([]string{
		"id", "driver_id", "passenger_phone", "amount_paid", "platform_fee", "driver_amount",
		"fee_percentage", "fee_fixed", "status", "collection_id", "tracking_id",
		"collection_status", "payout_status", "collection_completed_at", "payout_completed_at",
		"created_at", "updated_at",
	}).AddRow(
		"tx-1", "driver-1", "254722000111", 1000.0, 5.0, 995.0,
		0.5, 0.0, string(domain.TransactionStatusPayoutPending), "col-1", "",
		"completed", "pending", completedAt, nil,
		now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM transactions").WithArgs("tx-1").WillReturnRows(rows)

	tx, err := repo.GetByID(context.Background(), "tx-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Status != domain.TransactionStatusPayoutPending {
		t.Errorf("status = %s, want PAYOUT_PENDING", tx.Status)
	}
	if tx.CollectionCompletedAt == nil || !tx.CollectionCompletedAt.Equal(completedAt) {
		t.Errorf("collection_completed_at = %v, want %v", tx.CollectionCompletedAt, completedAt)
	}
	if tx.PayoutCompletedAt != nil {
		t.Errorf("payout_completed_at = %v, want nil", tx.PayoutCompletedAt)
	}
}

func TestListStalePending_Filters(t *testing.T) {
	t.Parallel()

	repo, mock := newTransactionRepo(t)
	cutoff := time.Now().Add(-15 * time.Minute)
	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs(domain.TransactionStatusPending, cutoff, 50).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "driver_id", "passenger_phone", "amount_paid", "platform_fee", "driver_amount",
			"fee_percentage", "fee_fixed", "status", "collection_id", "tracking_id",
			"collection_status", "payout_status", "collection_completed_at", "payout_completed_at",
			"created_at", "updated_at",
		}))

	stale, err := repo.ListStalePending(context.Background(), cutoff, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stale) != 0 {
		t.Errorf("stale = %d rows, want 0", len(stale))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListStalePayoutPending_Filters(t *testing.T) {
	t.Parallel()

	repo, mock := newTransactionRepo(t)
	cutoff := time.Now().Add(-15 * time.Minute)
	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs(domain.TransactionStatusPayoutPending, cutoff, 50).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "driver_id", "passenger_phone", "amount_paid", "platform_fee", "driver_amount",
			"fee_percentage", "fee_fixed", "status", "collection_id", "tracking_id",
			"collection_status", "payout_status", "collection_completed_at", "payout_completed_at",
			"created_at", "updated_at",
		}).AddRow(
			"tx-1", "driver-1", "254722000111", 1000.0, 5.0, 995.0,
			0.5, 0.0, string(domain.TransactionStatusPayoutPending), "col-1", "track-9",
			"completed", "processing", time.Now(), nil,
			time.Now(), time.Now(),
		))

	stale, err := repo.ListStalePayoutPending(context.Background(), cutoff, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stale) != 1 {
		t.Fatalf("stale = %d rows, want 1", len(stale))
	}
	if stale[0].TrackingID != "track-9" {
		t.Errorf("tracking id = %q, want track-9", stale[0].TrackingID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
