package gateway

import "encoding/json"

// WebhookEvent is an inbound provider notification. Exactly one of APIRef
// (collection events, echoing the caller-supplied reference) or TrackingID
// (payout events) identifies the record it belongs to. The provider delivers
// at least once with no ordering guarantee.
type WebhookEvent struct {
	ID         string          `json:"id"`
	InvoiceID  string          `json:"invoice_id"`
	State      string          `json:"state"`
	Status     string          `json:"status"`
	APIRef     string          `json:"api_ref"`
	TrackingID string          `json:"tracking_id"`
	Value      string          `json:"value"`
	Currency   string          `json:"currency"`
	Meta       json.RawMessage `json:"meta"`

	// Populated on failed payout events.
	FailedReason string `json:"failed_reason"`
	FailedCode   string `json:"failed_code"`
}

// FailureDetail returns the provider's failure explanation, empty when the
// event carries none.
func (e WebhookEvent) FailureDetail() string {
	if e.FailedReason != "" && e.FailedCode != "" {
		return e.FailedReason + " (code " + e.FailedCode + ")"
	}
	if e.FailedReason != "" {
		return e.FailedReason
	}
	return e.FailedCode
}

// StateValue returns whichever of the state/status fields the provider
// populated; some event types use one, some the other.
func (e WebhookEvent) StateValue() string {
	if e.State != "" {
		return e.State
	}
	return e.Status
}
