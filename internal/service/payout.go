package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"payswiftly/internal/domain"
	"payswiftly/internal/gateway"
	"payswiftly/internal/repository"
)

const dispatchBatchSize = 10

// PayoutOrchestrator disburses a completed collection to its driver. It
// never runs on the webhook's request path: completed collections enqueue a
// durable job, and the dispatch loop claims and processes jobs after the
// acknowledgment has gone out. Gateway calls are never blindly retried; the
// provider's webhooks are the authoritative source of final outcome.
type PayoutOrchestrator struct {
	jobRepo         repository.PayoutJobRepository
	payoutRepo      repository.PayoutRepository
	transactionRepo repository.TransactionRepository
	driverRepo      repository.DriverRepository
	statsRepo       repository.StatsRepository
	gateway         GatewayClient
	notifier        *NotificationService

	wake chan struct{}
}

// NewPayoutOrchestrator creates a new PayoutOrchestrator.
func NewPayoutOrchestrator(
	jobRepo repository.PayoutJobRepository,
	payoutRepo repository.PayoutRepository,
	transactionRepo repository.TransactionRepository,
	driverRepo repository.DriverRepository,
	statsRepo repository.StatsRepository,
	gw GatewayClient,
	notifier *NotificationService,
) *PayoutOrchestrator {
	return &PayoutOrchestrator{
		jobRepo:         jobRepo,
		payoutRepo:      payoutRepo,
		transactionRepo: transactionRepo,
		driverRepo:      driverRepo,
		statsRepo:       statsRepo,
		gateway:         gw,
		notifier:        notifier,
		wake:            make(chan struct{}, 1),
	}
}

// Wake nudges the dispatch loop to run ahead of its next tick.
func (o *PayoutOrchestrator) Wake() {
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

// Run drives the dispatch loop until the context is cancelled.
func (o *PayoutOrchestrator) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-o.wake:
		}

		if _, err := o.DispatchPending(ctx); err != nil {
			log.Printf("payout dispatch failed: %v", err)
		}
	}
}

// DispatchPending claims queued payout jobs and processes each one. Returns
// the number of jobs processed.
func (o *PayoutOrchestrator) DispatchPending(ctx context.Context) (int, error) {
	jobs, err := o.jobRepo.ClaimQueued(ctx, dispatchBatchSize)
	if err != nil {
		return 0, err
	}

	for _, job := range jobs {
		if err := o.process(ctx, job); err != nil {
			log.Printf("payout job %s for transaction %s failed: %v", job.ID, job.TransactionID, err)
			if markErr := o.jobRepo.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
				log.Printf("marking payout job %s failed: %v", job.ID, markErr)
			}
			continue
		}

		if err := o.jobRepo.MarkDone(ctx, job.ID); err != nil {
			log.Printf("marking payout job %s done: %v", job.ID, err)
		}
	}

	return len(jobs), nil
}

// process runs one payout attempt end to end. A nil return means the job is
// finished from the queue's perspective, including the deferred and failed
// terminal outcomes; only unexpected infrastructure errors propagate.
func (o *PayoutOrchestrator) process(ctx context.Context, job *domain.PayoutJob) error {
	driver, err := o.driverRepo.GetByID(ctx, job.DriverID)
	if err != nil {
		return err
	}

	now := time.Now()
	payout := &domain.Payout{
		ID:            uuid.New().String(),
		TransactionID: job.TransactionID,
		DriverID:      job.DriverID,
		Amount:        job.Amount,
		Status:        domain.PayoutStatusPending,
		InitiatedAt:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := o.payoutRepo.Create(ctx, payout); err != nil {
		return err
	}

	// Claim the driver's share out of the pending balance before touching the
	// gateway. The claim is the mutual exclusion point against the batch
	// sweep: whichever path moved the balance is the only one allowed to
	// disburse it.
	if err := o.driverRepo.MovePendingToPaid(ctx, job.DriverID, job.Amount); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			log.Printf("payout %s for driver %s skipped: pending balance already swept", payout.ID, job.DriverID)
			_, markErr := o.payoutRepo.MarkFailed(ctx, payout.ID, "pending balance already swept")
			return markErr
		}
		return err
	}

	resp, err := o.gateway.InitiatePayout(ctx, gateway.PayoutRequest{
		PhoneNumber: driver.Phone,
		Amount:      job.Amount,
		Reference:   payout.ID,
		Name:        driver.Name,
	})

	switch {
	case errors.Is(err, gateway.ErrBelowMinimum):
		// Not a permanent failure: the balance stays pending and the batch
		// sweep disburses it once it crosses the threshold.
		if refundErr := o.driverRepo.ReturnPaidToPending(ctx, job.DriverID, job.Amount); refundErr != nil {
			return refundErr
		}
		return o.deferBelowMinimum(ctx, job, payout)
	case err != nil:
		if refundErr := o.driverRepo.ReturnPaidToPending(ctx, job.DriverID, job.Amount); refundErr != nil {
			return refundErr
		}
		return o.failInitiation(ctx, job, payout, err)
	}

	return o.markInitiated(ctx, job, payout, resp.TrackingID)
}

func (o *PayoutOrchestrator) deferBelowMinimum(ctx context.Context, job *domain.PayoutJob, payout *domain.Payout) error {
	if _, err := o.payoutRepo.MarkFailed(ctx, payout.ID, "below minimum payout threshold"); err != nil {
		return err
	}

	if err := o.transactionRepo.UpdatePayoutStatus(ctx, job.TransactionID, domain.TxPayoutStatusPendingMinimum, ""); err != nil {
		return err
	}

	if o.notifier != nil {
		_ = o.notifier.NotifyPayoutDeferred(ctx, job.DriverID, job.Amount)
	}

	return nil
}

func (o *PayoutOrchestrator) failInitiation(ctx context.Context, job *domain.PayoutJob, payout *domain.Payout, cause error) error {
	if _, err := o.payoutRepo.MarkFailed(ctx, payout.ID, cause.Error()); err != nil {
		return err
	}

	if err := o.transactionRepo.UpdatePayoutStatus(ctx, job.TransactionID, domain.TxPayoutStatusFailed, ""); err != nil {
		return err
	}

	if err := o.statsRepo.RecordPayoutFailed(ctx); err != nil {
		return err
	}

	if o.notifier != nil {
		_ = o.notifier.NotifyPayoutFailed(ctx, job.DriverID, job.Amount, cause.Error())
	}

	log.Printf("payout %s for driver %s failed at gateway: %v", payout.ID, job.DriverID, cause)
	return nil
}

func (o *PayoutOrchestrator) markInitiated(ctx context.Context, job *domain.PayoutJob, payout *domain.Payout, trackingID string) error {
	if _, err := o.payoutRepo.MarkProcessing(ctx, payout.ID, trackingID); err != nil {
		return err
	}

	if err := o.transactionRepo.UpdatePayoutStatus(ctx, job.TransactionID, domain.TxPayoutStatusProcessing, trackingID); err != nil {
		return err
	}

	payout.TrackingID = trackingID
	if o.notifier != nil {
		_ = o.notifier.NotifyPayoutInitiated(ctx, payout)
	}

	return nil
}
