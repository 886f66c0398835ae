package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"payswiftly/internal/domain"
	"payswiftly/internal/gateway"
	"payswiftly/internal/redis"
	"payswiftly/internal/repository"
)

const (
	// recordLockTTL bounds how long a crashed delivery can block a record.
	recordLockTTL = 30 * time.Second

	staleBatchSize = 50
)

// WebhookReconciler is the single entry point for inbound provider
// notifications. It classifies each event as a collection or payout result,
// looks up the owning record and drives the state machine. Everything that
// cannot be matched to a known record is logged and dropped; the HTTP
// boundary acknowledges regardless, so internal failures never trigger
// provider-side redelivery storms.
type WebhookReconciler struct {
	transactions    *TransactionService
	transactionRepo repository.TransactionRepository
	payoutRepo      repository.PayoutRepository
	statsRepo       repository.StatsRepository
	locks           redis.LockStoreInterface
	gateway         GatewayClient
	scheduler       PayoutScheduler
}

// PayoutScheduler wakes the payout dispatch loop after a payout job has been
// enqueued. Nil-safe no-op when absent; the loop's poll interval is the
// fallback.
type PayoutScheduler interface {
	Wake()
}

// NewWebhookReconciler creates a new WebhookReconciler.
func NewWebhookReconciler(
	transactions *TransactionService,
	transactionRepo repository.TransactionRepository,
	payoutRepo repository.PayoutRepository,
	statsRepo repository.StatsRepository,
	locks redis.LockStoreInterface,
	gw GatewayClient,
	scheduler PayoutScheduler,
) *WebhookReconciler {
	return &WebhookReconciler{
		transactions:    transactions,
		transactionRepo: transactionRepo,
		payoutRepo:      payoutRepo,
		statsRepo:       statsRepo,
		locks:           locks,
		gateway:         gw,
		scheduler:       scheduler,
	}
}

// Process reconciles one provider notification. The returned error is for
// logging only; callers must still acknowledge the delivery.
func (r *WebhookReconciler) Process(ctx context.Context, event gateway.WebhookEvent) error {
	outcome, ok := normalizeOutcome(event.StateValue())
	if !ok {
		log.Printf("webhook %s dropped: unrecognized state %q", event.ID, event.StateValue())
		return nil
	}

	// api_ref identifies collections and takes precedence when both
	// identifiers are present; tracking_id alone identifies payouts.
	switch {
	case event.APIRef != "":
		return r.processCollection(ctx, event.APIRef, outcome)
	case event.TrackingID != "":
		return r.processPayout(ctx, event.TrackingID, outcome, event.FailureDetail())
	default:
		log.Printf("webhook %s dropped: unclassifiable, neither api_ref nor tracking_id", event.ID)
		return nil
	}
}

func (r *WebhookReconciler) processCollection(ctx context.Context, transactionID string, outcome Outcome) error {
	acquired, err := r.locks.AcquireRecordLock(ctx, "tx:"+transactionID, recordLockTTL)
	if err != nil {
		// Lock store unavailable: the guarded updates still make this safe.
		log.Printf("record lock for transaction %s unavailable: %v", transactionID, err)
	} else if !acquired {
		log.Printf("collection webhook for transaction %s skipped: delivery already in flight", transactionID)
		return nil
	} else {
		defer func() {
			_ = r.locks.ReleaseRecordLock(ctx, "tx:"+transactionID)
		}()
	}

	scheduled, err := r.transactions.ApplyCollectionResult(ctx, transactionID, outcome)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("collection webhook dropped: no transaction %s", transactionID)
			return nil
		}
		return err
	}

	if scheduled && r.scheduler != nil {
		r.scheduler.Wake()
	}

	return nil
}

func (r *WebhookReconciler) processPayout(ctx context.Context, trackingID string, outcome Outcome, failureReason string) error {
	acquired, err := r.locks.AcquireRecordLock(ctx, "payout:"+trackingID, recordLockTTL)
	if err != nil {
		log.Printf("record lock for payout %s unavailable: %v", trackingID, err)
	} else if !acquired {
		log.Printf("payout webhook %s skipped: delivery already in flight", trackingID)
		return nil
	} else {
		defer func() {
			_ = r.locks.ReleaseRecordLock(ctx, "payout:"+trackingID)
		}()
	}

	payout, err := r.payoutRepo.GetByTrackingID(ctx, trackingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("payout webhook dropped: no payout with tracking id %s", trackingID)
			return nil
		}
		return err
	}

	// Immediate payouts carry their transaction through the full state
	// machine; batch payouts have no backing transaction.
	if payout.TransactionID != "" {
		_, err = r.transactions.ApplyPayoutResult(ctx, payout.TransactionID, outcome, trackingID, failureReason)
		return err
	}

	return r.finishBatchPayout(ctx, payout, outcome, failureReason)
}

func (r *WebhookReconciler) finishBatchPayout(ctx context.Context, payout *domain.Payout, outcome Outcome, failureReason string) error {
	if outcome == OutcomeComplete {
		applied, err := r.payoutRepo.MarkCompleted(ctx, payout.ID, time.Now())
		if err != nil {
			return err
		}
		if !applied {
			log.Printf("batch payout %s completion already applied", payout.ID)
			return nil
		}
		return r.statsRepo.RecordPayoutCompleted(ctx, payout.Amount)
	}

	if failureReason == "" {
		failureReason = "payout failed at provider"
	}
	applied, err := r.payoutRepo.MarkFailed(ctx, payout.ID, failureReason)
	if err != nil {
		return err
	}
	if !applied {
		log.Printf("batch payout %s failure already applied", payout.ID)
		return nil
	}
	return r.statsRepo.RecordPayoutFailed(ctx)
}

// ReconcileStalePending actively queries the gateway for transactions stuck
// in PENDING or PAYOUT_PENDING longer than maxAge and feeds the answers
// through the normal reconciliation path. This closes the window where an
// internal failure during webhook processing would otherwise lose the event
// forever, since the provider never redelivers an acknowledged webhook.
func (r *WebhookReconciler) ReconcileStalePending(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	recovered, err := r.reconcileStaleCollections(ctx, cutoff)
	if err != nil {
		return recovered, err
	}

	payoutRecovered, err := r.reconcileStalePayouts(ctx, cutoff)
	return recovered + payoutRecovered, err
}

func (r *WebhookReconciler) reconcileStaleCollections(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := r.transactionRepo.ListStalePending(ctx, cutoff, staleBatchSize)
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, tx := range stale {
		status, err := r.gateway.CollectionStatus(ctx, tx.CollectionID)
		if err != nil {
			log.Printf("status check for stale transaction %s failed: %v", tx.ID, err)
			continue
		}

		outcome, ok := normalizeOutcome(status.State)
		if !ok {
			// Still pending at the provider; leave it for the next pass.
			continue
		}

		scheduled, err := r.transactions.ApplyCollectionResult(ctx, tx.ID, outcome)
		if err != nil {
			log.Printf("reconciling stale transaction %s failed: %v", tx.ID, err)
			continue
		}

		recovered++
		if scheduled && r.scheduler != nil {
			r.scheduler.Wake()
		}
	}

	if recovered > 0 {
		log.Printf("stale collection sweep recovered %d of %d transactions", recovered, len(stale))
	}

	return recovered, nil
}

func (r *WebhookReconciler) reconcileStalePayouts(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := r.transactionRepo.ListStalePayoutPending(ctx, cutoff, staleBatchSize)
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, tx := range stale {
		status, err := r.gateway.PayoutStatus(ctx, tx.TrackingID)
		if err != nil {
			log.Printf("status check for stale payout %s failed: %v", tx.TrackingID, err)
			continue
		}

		outcome, ok := normalizeOutcome(status.State)
		if !ok {
			continue
		}

		if _, err := r.transactions.ApplyPayoutResult(ctx, tx.ID, outcome, tx.TrackingID, ""); err != nil {
			log.Printf("reconciling stale payout for transaction %s failed: %v", tx.ID, err)
			continue
		}

		recovered++
	}

	if recovered > 0 {
		log.Printf("stale payout sweep recovered %d of %d transactions", recovered, len(stale))
	}

	return recovered, nil
}

// normalizeOutcome maps the provider's state vocabulary, case-insensitively,
// to the internal outcome. Anything else is unrecognized.
func normalizeOutcome(state string) (Outcome, bool) {
	switch strings.ToUpper(strings.TrimSpace(state)) {
	case "COMPLETE":
		return OutcomeComplete, true
	case "FAILED":
		return OutcomeFailed, true
	default:
		return "", false
	}
}
