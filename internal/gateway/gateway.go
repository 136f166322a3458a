// Package gateway is the HTTP client for the hosted payment gateway and
// the verifier for its signed webhook events.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Session is a normalized view of a hosted checkout session.
type Session struct {
	ID                 string `json:"id"`
	URL                string `json:"url,omitempty"`
	Status             string `json:"status"`
	AmountTotal        int64  `json:"amount_total"`
	Currency           string `json:"currency"`
	CustomerEmail      string `json:"customer_email,omitempty"`
	PaymentMethodBrand string `json:"payment_method_brand,omitempty"`
	PaymentMethodLast4 string `json:"payment_method_last4,omitempty"`
	InvoiceURL         string `json:"invoice_url,omitempty"`
}

// CreateSessionParams describes the single line item session requested
// from the gateway.
type CreateSessionParams struct {
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Description   string            `json:"description"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	Locale        string            `json:"locale,omitempty"`
	ExpiresAt     int64             `json:"expires_at"`
	SuccessURL    string            `json:"success_url"`
	CancelURL     string            `json:"cancel_url"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// APIError is an error reported by the gateway itself.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway error %s: %s", e.Code, e.Message)
}

// Client creates and retrieves hosted checkout sessions.
type Client interface {
	CreateSession(ctx context.Context, params *CreateSessionParams) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
}

// HTTPClient talks to the gateway's REST API with a secret bearer key.
type HTTPClient struct {
	apiBase   string
	secretKey string
	client    *http.Client
}

// NewHTTPClient creates a gateway client.
func NewHTTPClient(apiBase, secretKey string) *HTTPClient {
	return &HTTPClient{
		apiBase:   apiBase,
		secretKey: secretKey,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

// CreateSession requests a new hosted checkout session.
func (c *HTTPClient) CreateSession(ctx context.Context, params *CreateSessionParams) (*Session, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	return c.do(req)
}

// GetSession retrieves an existing session by id.
func (c *HTTPClient) GetSession(ctx context.Context, id string) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/v1/checkout/sessions/"+id, nil)
	if err != nil {
		return nil, err
	}

	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) (*Session, error) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope errorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Message == "" {
			return nil, &APIError{
				Code:       "unknown",
				Message:    fmt.Sprintf("gateway returned status %d", resp.StatusCode),
				HTTPStatus: resp.StatusCode,
			}
		}
		envelope.Error.HTTPStatus = resp.StatusCode
		return nil, &envelope.Error
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &session, nil
}
