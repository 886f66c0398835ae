package handler

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"payswiftly/internal/gateway"
)

// signatureHeader carries the provider's HMAC over the raw request body.
const signatureHeader = "X-IntaSend-Signature"

// WebhookProcessor consumes classified provider events.
type WebhookProcessor interface {
	Process(ctx context.Context, event gateway.WebhookEvent) error
}

// SignatureVerifier checks provider webhook signatures.
type SignatureVerifier interface {
	VerifyWebhookSignature(payload []byte, signature string) bool
}

// WebhookHandler handles inbound gateway notifications. The provider retries
// on anything but a 2xx, so every processable request is acknowledged with
// 200 regardless of what processing decided; dropping an event is the
// reconciler's call, not the transport's.
type WebhookHandler struct {
	processor        WebhookProcessor
	verifier         SignatureVerifier
	requireSignature bool
}

// NewWebhookHandler creates a new WebhookHandler. When requireSignature is
// set, events with a missing or invalid signature are acknowledged but not
// processed.
func NewWebhookHandler(processor WebhookProcessor, verifier SignatureVerifier, requireSignature bool) *WebhookHandler {
	return &WebhookHandler{
		processor:        processor,
		verifier:         verifier,
		requireSignature: requireSignature,
	}
}

// HandleGatewayWebhook handles POST /v1/webhooks/gateway
func (h *WebhookHandler) HandleGatewayWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("reading webhook body: %v", err)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if h.requireSignature {
		sig := c.GetHeader(signatureHeader)
		if h.verifier == nil || !h.verifier.VerifyWebhookSignature(body, sig) {
			log.Printf("webhook signature verification failed, dropping event")
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
	}

	var event gateway.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("decoding webhook payload: %v", err)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.processor.Process(c.Request.Context(), event); err != nil {
		// Processing errors are logged, never surfaced: a non-2xx would
		// only make the provider replay an event we cannot handle.
		log.Printf("processing webhook event %s: %v", event.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
