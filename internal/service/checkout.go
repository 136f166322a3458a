package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"camp-service/config"
	"camp-service/internal/gateway"
	"camp-service/internal/models"
	"camp-service/internal/pricing"
	"camp-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DemoSessionPrefix marks sessions synthesized without a live gateway.
const DemoSessionPrefix = "demo_cs_"

const sessionExpiry = 30 * time.Minute

// CheckoutService orchestrates hosted checkout session creation. It never
// writes to the local store: the only side effect is the gateway call.
type CheckoutService struct {
	gateway gateway.Client // nil in demo mode
	cfg     config.GatewayConfig
	logger  *zap.Logger
}

// NewCheckoutService creates a new checkout service. Pass a nil client to
// run in demo mode.
func NewCheckoutService(gw gateway.Client, cfg config.GatewayConfig) *CheckoutService {
	return &CheckoutService{
		gateway: gw,
		cfg:     cfg,
		logger:  util.GetLogger(),
	}
}

// CreateSessionRequest represents a checkout session request
type CreateSessionRequest struct {
	RegistrationID  string `json:"registration_id" binding:"required"`
	Package         string `json:"package" binding:"required"`
	PaymentType     string `json:"payment_type" binding:"required,oneof=full deposit"`
	GuardianName    string `json:"guardian_name"`
	ParticipantName string `json:"participant_name"`
	Email           string `json:"email"`
}

// CreateSessionResponse represents the created (or synthesized) session
type CreateSessionResponse struct {
	SessionID   string `json:"session_id"`
	URL         string `json:"url,omitempty"`
	Demo        bool   `json:"demo"`
	Package     string `json:"package"`
	PaymentType string `json:"payment_type"`
	Amount      int64  `json:"amount"`
	PriceLabel  string `json:"price_label"`
}

// CreateSession validates the package, computes the charge and requests a
// hosted session. Without gateway credentials it short-circuits into demo
// mode so the flow stays completable end to end.
func (cs *CheckoutService) CreateSession(ctx context.Context, req *CreateSessionRequest) (*CreateSessionResponse, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.CreateSession")
	defer span.End()

	amount, err := pricing.PriceFor(req.Package, req.PaymentType)
	if err != nil {
		util.CheckoutFailedTotal.WithLabelValues("invalid_package").Inc()
		return nil, err
	}

	resp := &CreateSessionResponse{
		Package:     req.Package,
		PaymentType: req.PaymentType,
		Amount:      amount,
		PriceLabel:  pricing.Label(amount),
	}

	if cs.gateway == nil {
		resp.SessionID = DemoSessionPrefix + uuid.New().String()
		resp.Demo = true

		util.CheckoutSessionsTotal.WithLabelValues("demo").Inc()
		cs.logger.Info("Demo checkout session synthesized",
			zap.String("session_id", resp.SessionID),
			zap.String("registration_id", req.RegistrationID))
		return resp, nil
	}

	params := &gateway.CreateSessionParams{
		Amount:        amount,
		Currency:      cs.cfg.Currency,
		Description:   fmt.Sprintf("Camp %s (%s) - %s", req.Package, req.PaymentType, req.ParticipantName),
		CustomerEmail: req.Email,
		Locale:        cs.cfg.Locale,
		ExpiresAt:     time.Now().Add(sessionExpiry).Unix(),
		SuccessURL:    cs.cfg.SuccessURL + "?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     cs.cfg.CancelURL,
		Metadata: map[string]string{
			"registration_id":  req.RegistrationID,
			"package":          req.Package,
			"payment_type":     req.PaymentType,
			"guardian_name":    req.GuardianName,
			"participant_name": req.ParticipantName,
		},
	}

	session, err := cs.gateway.CreateSession(ctx, params)
	if err != nil {
		util.CheckoutFailedTotal.WithLabelValues("gateway_error").Inc()
		return nil, err
	}

	util.CheckoutSessionsTotal.WithLabelValues("live").Inc()
	cs.logger.Info("Checkout session created",
		zap.String("session_id", session.ID),
		zap.String("registration_id", req.RegistrationID),
		zap.Int64("amount", amount))

	resp.SessionID = session.ID
	resp.URL = session.URL
	return resp, nil
}

// GetSession retrieves a session for the post-payment confirmation page.
// Demo-prefixed ids return a synthesized succeeded session.
func (cs *CheckoutService) GetSession(ctx context.Context, id string) (*gateway.Session, error) {
	if strings.HasPrefix(id, DemoSessionPrefix) {
		return &gateway.Session{
			ID:       id,
			Status:   "complete",
			Currency: cs.cfg.Currency,
		}, nil
	}

	if cs.gateway == nil {
		return nil, fmt.Errorf("payment gateway not configured")
	}

	return cs.gateway.GetSession(ctx, id)
}

// PaymentStatusFor maps a payment type to the resulting payment status.
func PaymentStatusFor(paymentType string) string {
	if paymentType == models.PaymentTypeDeposit {
		return models.PaymentStatusPartial
	}
	return models.PaymentStatusPaid
}
