package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// SignatureHeader is the header carrying the hex HMAC of the raw body.
const SignatureHeader = "X-Gateway-Signature"

// Webhook event types emitted by the gateway.
const (
	EventSessionCompleted = "checkout.session.completed"
	EventPaymentFailed    = "payment.failed"
	EventPaymentSucceeded = "payment.succeeded"
)

// Event is a webhook event delivered by the gateway.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

type EventData struct {
	Object SessionObject `json:"object"`
}

// SessionObject is the session/intent snapshot embedded in an event.
// Metadata carries the registration id set at session creation; it is the
// only channel by which an event is tied back to a registration.
type SessionObject struct {
	ID            string            `json:"id"`
	PaymentIntent string            `json:"payment_intent,omitempty"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	PaymentMethod string            `json:"payment_method_type,omitempty"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// ParseEvent decodes a verified webhook body.
func ParseEvent(body []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal webhook event: %w", err)
	}
	return &event, nil
}

// Sign computes the hex HMAC-SHA256 of body with the shared webhook secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook signature in constant time.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := Sign(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
