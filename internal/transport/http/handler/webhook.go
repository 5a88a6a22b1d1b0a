package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const paystackSignatureHeader = "x-paystack-signature"

type eventQueue interface {
	Publish(ctx context.Context, payload []byte) error
}

type WebhookHandler struct {
	secretKey string
	queue     eventQueue
}

func NewWebhookHandler(secretKey string, queue eventQueue) *WebhookHandler {
	return &WebhookHandler{secretKey: secretKey, queue: queue}
}

// Paystack verifies the HMAC-SHA512 signature over the raw request body
// and enqueues the event for asynchronous processing. Verification must
// run on the exact bytes received, before any JSON decoding.
func (h *WebhookHandler) Paystack(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unreadable body"})
		return
	}

	if !h.verifySignature(body, c.GetHeader(paystackSignatureHeader)) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid signature"})
		return
	}

	if err := h.queue.Publish(c.Request.Context(), body); err != nil {
		log.Printf("webhook: enqueue paystack event failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "event enqueue failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if h.secretKey == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(h.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
