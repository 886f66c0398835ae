package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"payswiftly/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationPaymentReceived NotificationType = "PAYMENT_RECEIVED"
	NotificationPayoutInitiated NotificationType = "PAYOUT_INITIATED"
	NotificationPayoutCompleted NotificationType = "PAYOUT_COMPLETED"
	NotificationPayoutFailed    NotificationType = "PAYOUT_FAILED"
	NotificationPayoutDeferred  NotificationType = "PAYOUT_DEFERRED"
)

// Notification represents a notification to be sent to a driver.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery to drivers.
type NotificationService struct {
	// In a real deployment this would carry an SMS client; drivers on
	// feature phones get payout confirmations by SMS.
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyPaymentReceived tells the driver a passenger payment cleared.
func (s *NotificationService) NotifyPaymentReceived(ctx context.Context, tx *domain.Transaction) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentReceived,
		RecipientID: tx.DriverID,
		Title:       "Payment Received",
		Message:     fmt.Sprintf("KES %.2f received. KES %.2f will be sent to your M-Pesa.", tx.AmountPaid, tx.DriverAmount),
		Data: map[string]interface{}{
			"transaction_id": tx.ID,
			"amount":         tx.AmountPaid,
			"driver_amount":  tx.DriverAmount,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPayoutInitiated tells the driver a disbursement is on its way.
func (s *NotificationService) NotifyPayoutInitiated(ctx context.Context, payout *domain.Payout) error {
	return s.send(ctx, Notification{
		Type:        NotificationPayoutInitiated,
		RecipientID: payout.DriverID,
		Title:       "Payout Sent",
		Message:     fmt.Sprintf("KES %.2f is being sent to your M-Pesa.", payout.Amount),
		Data: map[string]interface{}{
			"payout_id":   payout.ID,
			"amount":      payout.Amount,
			"tracking_id": payout.TrackingID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPayoutCompleted confirms money arrived in the driver's account.
func (s *NotificationService) NotifyPayoutCompleted(ctx context.Context, driverID string, amount float64) error {
	return s.send(ctx, Notification{
		Type:        NotificationPayoutCompleted,
		RecipientID: driverID,
		Title:       "Payout Completed",
		Message:     fmt.Sprintf("KES %.2f has arrived in your M-Pesa account.", amount),
		Data: map[string]interface{}{
			"amount": amount,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPayoutFailed tells the driver a disbursement failed.
func (s *NotificationService) NotifyPayoutFailed(ctx context.Context, driverID string, amount float64, reason string) error {
	return s.send(ctx, Notification{
		Type:        NotificationPayoutFailed,
		RecipientID: driverID,
		Title:       "Payout Failed",
		Message:     fmt.Sprintf("Sending KES %.2f failed: %s. Support will follow up.", amount, reason),
		Data: map[string]interface{}{
			"amount": amount,
			"reason": reason,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPayoutDeferred tells the driver their earnings will accumulate until
// the weekly batch payout.
func (s *NotificationService) NotifyPayoutDeferred(ctx context.Context, driverID string, amount float64) error {
	return s.send(ctx, Notification{
		Type:        NotificationPayoutDeferred,
		RecipientID: driverID,
		Title:       "Earnings Saved",
		Message:     fmt.Sprintf("KES %.2f added to your balance. It will be paid out with your next batch payout.", amount),
		Data: map[string]interface{}{
			"amount": amount,
		},
		CreatedAt: time.Now(),
	})
}

// send delivers a notification (log-only implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)

	return nil
}
