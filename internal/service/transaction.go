package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"payswiftly/internal/domain"
	"payswiftly/internal/gateway"
	"payswiftly/internal/repository"
	"payswiftly/internal/repository/postgres"
)

// Outcome is the normalized result of a provider notification.
type Outcome string

const (
	OutcomeComplete Outcome = "COMPLETE"
	OutcomeFailed   Outcome = "FAILED"
)

// TransactionService owns the transaction lifecycle: creation, collection
// confirmation and payout completion. Every transition is a guarded
// conditional update, so replayed or out-of-order webhook deliveries
// degrade to logged no-ops instead of double-crediting anyone.
type TransactionService struct {
	db              *sql.DB
	transactionRepo repository.TransactionRepository
	driverRepo      repository.DriverRepository
	payoutRepo      repository.PayoutRepository
	gateway         GatewayClient
	fees            *FeeCalculator
	notifier        *NotificationService
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	db *sql.DB,
	transactionRepo repository.TransactionRepository,
	driverRepo repository.DriverRepository,
	payoutRepo repository.PayoutRepository,
	gw GatewayClient,
	fees *FeeCalculator,
	notifier *NotificationService,
) *TransactionService {
	return &TransactionService{
		db:              db,
		transactionRepo: transactionRepo,
		driverRepo:      driverRepo,
		payoutRepo:      payoutRepo,
		gateway:         gw,
		fees:            fees,
		notifier:        notifier,
	}
}

// CreatePaymentRequest contains the parameters for initiating a passenger
// payment.
type CreatePaymentRequest struct {
	DriverID       string
	PassengerPhone string
	Amount         float64
}

// Create creates a PENDING transaction with its fee breakdown and initiates
// the collection at the gateway. Errors on this synchronous path surface to
// the caller so the passenger can retry.
func (s *TransactionService) Create(ctx context.Context, req CreatePaymentRequest) (*domain.Transaction, error) {
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}

	if req.PassengerPhone == "" {
		return nil, ErrInvalidPhone
	}

	breakdown, err := s.fees.Calculate(req.Amount)
	if err != nil {
		return nil, err
	}

	driver, err := s.driverRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tx := &domain.Transaction{
		ID:             uuid.New().String(),
		DriverID:       driver.ID,
		PassengerPhone: req.PassengerPhone,
		AmountPaid:     breakdown.Total,
		PlatformFee:    breakdown.PlatformFee,
		DriverAmount:   breakdown.DriverAmount,
		FeePercentage:  breakdown.FeePercentage,
		FeeFixed:       breakdown.FeeFixed,
		Status:         domain.TransactionStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	// The transaction ID doubles as the api_ref echoed back in collection
	// webhooks, tying every notification to its transaction.
	resp, err := s.gateway.InitiateCollection(ctx, gateway.CollectionRequest{
		PhoneNumber: req.PassengerPhone,
		Amount:      tx.AmountPaid,
		Reference:   tx.ID,
	})
	if err != nil {
		if _, markErr := s.transactionRepo.MarkCollectionFailed(ctx, tx.ID); markErr != nil {
			log.Printf("marking transaction %s failed after gateway error: %v", tx.ID, markErr)
		}
		return nil, fmt.Errorf("initiating collection: %w", err)
	}

	collectionStatus := strings.ToLower(resp.State)
	if err := s.transactionRepo.AttachCollection(ctx, tx.ID, resp.ID, collectionStatus); err != nil {
		return nil, err
	}

	tx.CollectionID = resp.ID
	tx.CollectionStatus = collectionStatus

	return tx, nil
}

// GetByID retrieves a transaction.
func (s *TransactionService) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if id == "" {
		return nil, ErrInvalidTransactionID
	}

	return s.transactionRepo.GetByID(ctx, id)
}

// ApplyCollectionResult drives the collection phase of the state machine.
// Returns true when a payout was scheduled, false when the event was a
// duplicate or the collection failed. Unknown transaction IDs surface as
// repository.ErrNotFound for the caller to log and drop.
func (s *TransactionService) ApplyCollectionResult(ctx context.Context, transactionID string, outcome Outcome) (bool, error) {
	if transactionID == "" {
		return false, ErrInvalidTransactionID
	}

	tx, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return false, err
	}

	// At-least-once delivery: anything past PENDING already consumed a
	// collection result.
	if tx.Status.IsTerminal() {
		log.Printf("collection result for transaction %s ignored: terminal status %s", tx.ID, tx.Status)
		return false, nil
	}
	if tx.Status != domain.TransactionStatusPending {
		log.Printf("collection result for transaction %s ignored: status is %s", tx.ID, tx.Status)
		return false, nil
	}

	if outcome == OutcomeFailed {
		applied, err := s.transactionRepo.MarkCollectionFailed(ctx, tx.ID)
		if err != nil {
			return false, err
		}
		if !applied {
			log.Printf("collection failure for transaction %s lost the race, ignoring", tx.ID)
		}
		return false, nil
	}

	return s.completeCollection(ctx, tx)
}

// completeCollection performs the single atomic unit for a confirmed
// collection: the PENDING -> PAYOUT_PENDING transition, the platform fee
// ledger row, the driver's pending balance accrual, the stats increments and
// the durable payout job. Either all of it commits or none of it does.
func (s *TransactionService) completeCollection(ctx context.Context, tx *domain.Transaction) (scheduled bool, err error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}

	defer func() {
		if err != nil {
			_ = dbTx.Rollback()
		}
	}()

	txTransactionRepo := postgres.NewTransactionRepositoryWithTx(dbTx)
	txFeeRepo := postgres.NewPlatformFeeRepositoryWithTx(dbTx)
	txDriverRepo := postgres.NewDriverRepositoryWithTx(dbTx)
	txStatsRepo := postgres.NewStatsRepositoryWithTx(dbTx)
	txJobRepo := postgres.NewPayoutJobRepositoryWithTx(dbTx)

	now := time.Now()

	applied, err := txTransactionRepo.MarkCollectionCompleted(ctx, tx.ID, now)
	if err != nil {
		return false, err
	}
	if !applied {
		// A concurrent duplicate delivery won the transition.
		_ = dbTx.Rollback()
		log.Printf("collection completion for transaction %s already applied", tx.ID)
		return false, nil
	}

	fee := &domain.PlatformFee{
		ID:                 uuid.New().String(),
		TransactionID:      tx.ID,
		Amount:             tx.PlatformFee,
		FeeType:            s.fees.FeeType(),
		PercentageApplied:  tx.FeePercentage,
		FixedAmountApplied: tx.FeeFixed,
		CollectedAt:        now,
		CreatedAt:          now,
	}
	if err = txFeeRepo.Create(ctx, fee); err != nil {
		return false, err
	}

	if err = txDriverRepo.AddPendingBalance(ctx, tx.DriverID, tx.DriverAmount); err != nil {
		return false, err
	}

	if err = txStatsRepo.RecordCollection(ctx, tx.AmountPaid, tx.PlatformFee, tx.DriverAmount); err != nil {
		return false, err
	}

	job := &domain.PayoutJob{
		ID:            uuid.New().String(),
		TransactionID: tx.ID,
		DriverID:      tx.DriverID,
		Amount:        tx.DriverAmount,
		Status:        domain.PayoutJobQueued,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err = txJobRepo.Enqueue(ctx, job); err != nil {
		return false, err
	}

	if err = dbTx.Commit(); err != nil {
		return false, err
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyPaymentReceived(ctx, tx)
	}

	return true, nil
}

// ApplyPayoutResult drives the payout phase of the state machine based on a
// payout webhook. Duplicate and late deliveries degrade to logged no-ops.
// failureReason carries the provider's failure detail for failed outcomes and
// may be empty.
func (s *TransactionService) ApplyPayoutResult(ctx context.Context, transactionID string, outcome Outcome, trackingID, failureReason string) (bool, error) {
	if transactionID == "" {
		return false, ErrInvalidTransactionID
	}

	tx, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return false, err
	}

	if tx.Status.IsTerminal() {
		log.Printf("payout result for transaction %s ignored: terminal status %s", tx.ID, tx.Status)
		return false, nil
	}
	if tx.Status != domain.TransactionStatusPayoutPending {
		log.Printf("payout result for transaction %s ignored: status is %s", tx.ID, tx.Status)
		return false, nil
	}

	var payout *domain.Payout
	if trackingID != "" {
		payout, err = s.payoutRepo.GetByTrackingID(ctx, trackingID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return false, err
		}
	}

	if outcome == OutcomeComplete {
		return s.completePayout(ctx, tx, payout)
	}
	return s.failPayout(ctx, tx, payout, failureReason)
}

func (s *TransactionService) completePayout(ctx context.Context, tx *domain.Transaction, payout *domain.Payout) (applied bool, err error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}

	defer func() {
		if err != nil {
			_ = dbTx.Rollback()
		}
	}()

	txTransactionRepo := postgres.NewTransactionRepositoryWithTx(dbTx)
	txPayoutRepo := postgres.NewPayoutRepositoryWithTx(dbTx)
	txStatsRepo := postgres.NewStatsRepositoryWithTx(dbTx)

	now := time.Now()

	applied, err = txTransactionRepo.MarkPayoutCompleted(ctx, tx.ID, now)
	if err != nil {
		return false, err
	}
	if !applied {
		_ = dbTx.Rollback()
		log.Printf("payout completion for transaction %s already applied", tx.ID)
		return false, nil
	}

	if payout != nil {
		if _, err = txPayoutRepo.MarkCompleted(ctx, payout.ID, now); err != nil {
			return false, err
		}
	}

	if err = txStatsRepo.RecordPayoutCompleted(ctx, tx.DriverAmount); err != nil {
		return false, err
	}

	if err = dbTx.Commit(); err != nil {
		return false, err
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyPayoutCompleted(ctx, tx.DriverID, tx.DriverAmount)
	}

	return true, nil
}

func (s *TransactionService) failPayout(ctx context.Context, tx *domain.Transaction, payout *domain.Payout, reason string) (applied bool, err error) {
	if reason == "" {
		reason = "payout failed at provider"
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}

	defer func() {
		if err != nil {
			_ = dbTx.Rollback()
		}
	}()

	txTransactionRepo := postgres.NewTransactionRepositoryWithTx(dbTx)
	txPayoutRepo := postgres.NewPayoutRepositoryWithTx(dbTx)
	txStatsRepo := postgres.NewStatsRepositoryWithTx(dbTx)

	applied, err = txTransactionRepo.MarkPayoutFailed(ctx, tx.ID)
	if err != nil {
		return false, err
	}
	if !applied {
		_ = dbTx.Rollback()
		log.Printf("payout failure for transaction %s already applied", tx.ID)
		return false, nil
	}

	if payout != nil {
		if _, err = txPayoutRepo.MarkFailed(ctx, payout.ID, reason); err != nil {
			return false, err
		}
	}

	if err = txStatsRepo.RecordPayoutFailed(ctx); err != nil {
		return false, err
	}

	if err = dbTx.Commit(); err != nil {
		return false, err
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyPayoutFailed(ctx, tx.DriverID, tx.DriverAmount, reason)
	}

	return true, nil
}
