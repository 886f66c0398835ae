package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"payswiftly/internal/domain"
	"payswiftly/internal/gateway"
	"payswiftly/internal/redis"
	"payswiftly/internal/repository"
)

const sweepLockTTL = 10 * time.Minute

// SweepDetail is the per-driver result of one batch payout attempt.
type SweepDetail struct {
	DriverID   string  `json:"driver_id"`
	DriverName string  `json:"driver_name"`
	Amount     float64 `json:"amount"`
	TrackingID string  `json:"tracking_id,omitempty"`
	Status     string  `json:"status"`
	Error      string  `json:"error,omitempty"`
}

// SweepSummary reports what a batch payout sweep did, driver by driver, so
// operators can see exactly which payouts need manual follow-up.
type SweepSummary struct {
	Processed   int           `json:"processed"`
	TotalAmount float64       `json:"total_amount"`
	Details     []SweepDetail `json:"details"`
}

// BatchPayoutService periodically disburses accumulated driver balances.
// Each driver is handled independently: one failure never aborts or rolls
// back another driver's payout. Drivers with the highest balances go first
// to bound exposure if the gateway fails mid-sweep.
type BatchPayoutService struct {
	driverRepo repository.DriverRepository
	payoutRepo repository.PayoutRepository
	locks      redis.LockStoreInterface
	gateway    GatewayClient
	notifier   *NotificationService
}

// NewBatchPayoutService creates a new BatchPayoutService.
func NewBatchPayoutService(
	driverRepo repository.DriverRepository,
	payoutRepo repository.PayoutRepository,
	locks redis.LockStoreInterface,
	gw GatewayClient,
	notifier *NotificationService,
) *BatchPayoutService {
	return &BatchPayoutService{
		driverRepo: driverRepo,
		payoutRepo: payoutRepo,
		locks:      locks,
		gateway:    gw,
		notifier:   notifier,
	}
}

// Run sweeps every driver whose pending balance meets the threshold. Only
// infrastructure failures (driver list unavailable, sweep already running)
// return an error; per-driver failures land in the summary.
func (s *BatchPayoutService) Run(ctx context.Context, minimumThreshold float64) (*SweepSummary, error) {
	if s.locks != nil {
		acquired, err := s.locks.AcquireSweepLock(ctx, sweepLockTTL)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, ErrSweepAlreadyRunning
		}
		defer func() {
			_ = s.locks.ReleaseSweepLock(ctx)
		}()
	}

	drivers, err := s.driverRepo.ListPayoutEligible(ctx, minimumThreshold)
	if err != nil {
		return nil, err
	}

	summary := &SweepSummary{Details: make([]SweepDetail, 0, len(drivers))}

	for _, driver := range drivers {
		detail := s.payoutDriver(ctx, driver)
		summary.Details = append(summary.Details, detail)

		if detail.Status == "success" {
			summary.Processed++
			summary.TotalAmount += detail.Amount
		}
	}

	log.Printf("batch payout sweep: %d of %d drivers paid, total %.2f",
		summary.Processed, len(drivers), summary.TotalAmount)

	return summary, nil
}

// RunLoop triggers the sweep on a fixed interval until the context is
// cancelled.
func (s *BatchPayoutService) RunLoop(ctx context.Context, interval time.Duration, minimumThreshold float64) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Run(ctx, minimumThreshold); err != nil {
				log.Printf("scheduled batch payout sweep failed: %v", err)
			}
		}
	}
}

// payoutDriver disburses one driver's full pending balance. On failure the
// balance is left untouched for the next sweep.
func (s *BatchPayoutService) payoutDriver(ctx context.Context, driver *domain.Driver) SweepDetail {
	detail := SweepDetail{
		DriverID:   driver.ID,
		DriverName: driver.Name,
		Amount:     driver.PendingBalance,
	}

	now := time.Now()
	payout := &domain.Payout{
		ID:          uuid.New().String(),
		DriverID:    driver.ID,
		Amount:      driver.PendingBalance,
		Status:      domain.PayoutStatusPending,
		InitiatedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.payoutRepo.Create(ctx, payout); err != nil {
		return failDetail(detail, err)
	}

	// Claim the balance before the gateway call. A concurrent immediate
	// payout racing for the same money loses its own claim and backs off, so
	// each shilling is disbursed exactly once.
	if err := s.driverRepo.MovePendingToPaid(ctx, driver.ID, driver.PendingBalance); err != nil {
		if _, markErr := s.payoutRepo.MarkFailed(ctx, payout.ID, err.Error()); markErr != nil {
			log.Printf("marking batch payout %s failed: %v", payout.ID, markErr)
		}
		return failDetail(detail, err)
	}

	reference := fmt.Sprintf("batch_%s_%s", driver.ID, now.Format("20060102"))
	resp, err := s.gateway.InitiatePayout(ctx, gateway.PayoutRequest{
		PhoneNumber: driver.Phone,
		Amount:      driver.PendingBalance,
		Reference:   reference,
		Name:        driver.Name,
	})
	if err != nil {
		if refundErr := s.driverRepo.ReturnPaidToPending(ctx, driver.ID, driver.PendingBalance); refundErr != nil {
			log.Printf("returning claimed balance to driver %s after failed batch payout %s: %v", driver.ID, payout.ID, refundErr)
		}
		if _, markErr := s.payoutRepo.MarkFailed(ctx, payout.ID, err.Error()); markErr != nil {
			log.Printf("marking batch payout %s failed: %v", payout.ID, markErr)
		}
		return failDetail(detail, err)
	}

	if _, err := s.payoutRepo.MarkProcessing(ctx, payout.ID, resp.TrackingID); err != nil {
		// The money is on its way; keep the claim and flag the record for
		// manual follow-up rather than risking a second disbursement.
		log.Printf("marking batch payout %s processing: %v", payout.ID, err)
		return failDetail(detail, err)
	}

	detail.TrackingID = resp.TrackingID
	detail.Status = "success"

	if s.notifier != nil {
		payout.TrackingID = resp.TrackingID
		_ = s.notifier.NotifyPayoutInitiated(ctx, payout)
	}

	return detail
}

func failDetail(detail SweepDetail, err error) SweepDetail {
	detail.Status = "failed"
	detail.Error = err.Error()
	log.Printf("batch payout for driver %s failed: %v", detail.DriverID, err)
	return detail
}
