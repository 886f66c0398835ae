package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"payswiftly/internal/config"
)

// Base URLs for the mobile money aggregator.
const (
	sandboxBaseURL = "https://sandbox.intasend.com/api/v1"
	liveBaseURL    = "https://payment.intasend.com/api/v1"
)

// Client talks to the mobile money aggregator: STK push collections from
// passengers and disbursements to drivers. Final outcomes always arrive via
// webhook; the synchronous responses only carry provider-assigned IDs.
type Client struct {
	baseURL       string
	apiKey        string
	webhookSecret string
	httpClient    *http.Client
}

// NewClient creates a gateway client from configuration.
func NewClient(cfg config.GatewayConfig) *Client {
	baseURL := liveBaseURL
	if cfg.TestMode {
		baseURL = sandboxBaseURL
	}

	return &Client{
		baseURL:       baseURL,
		apiKey:        cfg.APIKey,
		webhookSecret: cfg.WebhookSecret,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
	}
}

// NewClientWithBaseURL creates a client against an explicit base URL.
// Used by tests to point at a local server.
func NewClientWithBaseURL(baseURL, apiKey, webhookSecret string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		httpClient:    httpClient,
	}
}

// CollectionRequest initiates an STK push against a passenger's phone.
type CollectionRequest struct {
	PhoneNumber string
	Amount      float64
	Reference   string
	Email       string
	Name        string
}

// CollectionResponse carries the provider-assigned collection identifiers.
type CollectionResponse struct {
	ID        string `json:"id"`
	InvoiceID string `json:"invoice_id"`
	State     string `json:"state"`
}

// PayoutRequest initiates a disbursement to a driver's phone.
type PayoutRequest struct {
	PhoneNumber string
	Amount      float64
	Reference   string
	Name        string
	Account     string
}

// PayoutResponse carries the provider-assigned payout tracking ID.
type PayoutResponse struct {
	TrackingID string `json:"tracking_id"`
	State      string `json:"state"`
}

// StatusResponse is the shape of both collection and payout status queries.
type StatusResponse struct {
	ID         string `json:"id"`
	InvoiceID  string `json:"invoice_id"`
	TrackingID string `json:"tracking_id"`
	State      string `json:"state"`
	APIRef     string `json:"api_ref"`
}

// InitiateCollection starts an M-Pesa STK push payment collection.
func (c *Client) InitiateCollection(ctx context.Context, req CollectionRequest) (*CollectionResponse, error) {
	payload := map[string]any{
		"method":       "M-PESA",
		"amount":       int64(req.Amount), // provider expects integer units
		"currency":     "KES",
		"phone_number": NormalizePhone(req.PhoneNumber),
		"api_ref":      req.Reference,
		"narrative":    narrative(req.Reference),
	}
	if req.Email != "" {
		payload["email"] = req.Email
	}
	if req.Name != "" {
		payload["name"] = req.Name
	}

	var resp CollectionResponse
	if err := c.post(ctx, "payment/mpesa-stk-push/", payload, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// CollectionStatus queries the state of a collection.
func (c *Client) CollectionStatus(ctx context.Context, collectionID string) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get(ctx, "payment/status/", url.Values{"id": {collectionID}}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InitiatePayout disburses funds to a driver's M-Pesa account. Instant
// approval is requested so no manual step sits between initiation and the
// completion webhook.
func (c *Client) InitiatePayout(ctx context.Context, req PayoutRequest) (*PayoutResponse, error) {
	payload := map[string]any{
		"device":            NormalizePhone(req.PhoneNumber),
		"amount":            int64(req.Amount),
		"currency":          "KES",
		"narrative":         narrative(req.Reference),
		"requires_approval": "NO",
	}
	if req.Name != "" {
		payload["name"] = req.Name
	}
	if req.Account != "" {
		payload["account"] = req.Account
	}

	var resp PayoutResponse
	if err := c.post(ctx, "payouts/approve/", payload, &resp); err != nil {
		return nil, err
	}

	if resp.TrackingID == "" {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "no tracking_id in payout response"}
	}

	return &resp, nil
}

// PayoutStatus queries the state of a payout.
func (c *Client) PayoutStatus(ctx context.Context, trackingID string) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get(ctx, "payouts/status/", url.Values{"tracking_id": {trackingID}}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyWebhookSignature checks the HMAC-SHA256 signature on a raw webhook
// payload. Returns false when no webhook secret is configured.
func (c *Client) VerifyWebhookSignature(payload []byte, signature string) bool {
	if c.webhookSecret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// NormalizePhone converts a phone number to the 254XXXXXXXXX format the
// provider expects.
func NormalizePhone(phone string) string {
	switch {
	case strings.HasPrefix(phone, "+"):
		return phone[1:]
	case strings.HasPrefix(phone, "0"):
		return "254" + phone[1:]
	}
	return phone
}

func narrative(reference string) string {
	if len(reference) > 20 {
		reference = reference[:20]
	}
	return "Ride payment - Ref: " + reference
}

func (c *Client) post(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.apiError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding gateway response: %w", err)
		}
	}

	return nil
}

// apiError maps an error response body to the error taxonomy. The provider
// reports disbursements under its minimum with a message mentioning the
// minimum amount; that case gets the distinct sentinel.
func (c *Client) apiError(statusCode int, body []byte) error {
	message := string(body)

	var detail struct {
		Detail string `json:"detail"`
		Errors []struct {
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &detail); err == nil {
		if detail.Detail != "" {
			message = detail.Detail
		} else if len(detail.Errors) > 0 && detail.Errors[0].Detail != "" {
			message = detail.Errors[0].Detail
		}
	}

	if statusCode == http.StatusBadRequest && strings.Contains(strings.ToLower(message), "minimum") {
		return fmt.Errorf("%w: %s", ErrBelowMinimum, message)
	}

	return &APIError{StatusCode: statusCode, Message: message}
}
