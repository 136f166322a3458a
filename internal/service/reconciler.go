package service

import (
	"context"
	"errors"
	"time"

	"camp-service/internal/gateway"
	"camp-service/internal/models"
	"camp-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrWebhookNotConfigured = errors.New("webhook secret not configured")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
)

const dedupeTTL = 24 * time.Hour

// Reconciler applies verified gateway events to registration records.
// After signature verification succeeds, every path acknowledges the event:
// store failures are logged, never bounced back to the gateway, so a
// processed-but-partially-failed event is not redelivered forever.
type Reconciler struct {
	store     RegistrationStore // nil when the store is unconfigured
	dedupe    EventDeduper      // nil when redis is unavailable
	publisher Publisher         // nil when the broker is unavailable
	secret    string
	logger    *zap.Logger
}

// NewReconciler creates a new payment event reconciler.
func NewReconciler(store RegistrationStore, dedupe EventDeduper, publisher Publisher, webhookSecret string) *Reconciler {
	return &Reconciler{
		store:     store,
		dedupe:    dedupe,
		publisher: publisher,
		secret:    webhookSecret,
		logger:    util.GetLogger(),
	}
}

// Process verifies and applies one webhook delivery. It returns
// ErrWebhookNotConfigured or ErrInvalidSignature when the event must be
// rejected with no processing; any other outcome is an acknowledgment.
func (r *Reconciler) Process(ctx context.Context, body []byte, signature string) error {
	ctx, span := util.StartSpan(ctx, "Reconciler.Process")
	defer span.End()

	start := time.Now()
	defer func() {
		util.WebhookProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	if r.secret == "" {
		util.WebhookEventsTotal.WithLabelValues("unknown", "rejected").Inc()
		return ErrWebhookNotConfigured
	}

	if !gateway.VerifySignature(r.secret, body, signature) {
		util.WebhookEventsTotal.WithLabelValues("unknown", "rejected").Inc()
		return ErrInvalidSignature
	}

	event, err := gateway.ParseEvent(body)
	if err != nil {
		// Authentic but unparseable: acknowledge, a retry cannot help.
		r.logger.Error("Failed to parse verified webhook event", zap.Error(err))
		util.WebhookEventsTotal.WithLabelValues("unknown", "malformed").Inc()
		return nil
	}

	if r.dedupe != nil && event.ID != "" {
		first, err := r.dedupe.MarkEventProcessed(ctx, event.ID, dedupeTTL)
		if err != nil {
			r.logger.Warn("Event dedupe unavailable, processing anyway",
				zap.String("event_id", event.ID),
				zap.Error(err))
		} else if !first {
			r.logger.Info("Event already processed", zap.String("event_id", event.ID))
			util.WebhookEventsTotal.WithLabelValues(event.Type, "duplicate").Inc()
			return nil
		}
	}

	switch event.Type {
	case gateway.EventSessionCompleted:
		r.handleSessionCompleted(ctx, event, body)

	case gateway.EventPaymentFailed:
		r.handlePaymentFailed(ctx, event)

	case gateway.EventPaymentSucceeded:
		// Audit only. The session-completed event is authoritative for
		// state transitions, which keeps one logical payment from being
		// applied twice.
		r.logger.Info("Payment intent succeeded",
			zap.String("event_id", event.ID),
			zap.String("intent_id", event.Data.Object.PaymentIntent))
		util.WebhookEventsTotal.WithLabelValues(event.Type, "audited").Inc()

	default:
		r.logger.Info("Unhandled webhook event type", zap.String("type", event.Type))
		util.WebhookEventsTotal.WithLabelValues(event.Type, "ignored").Inc()
	}

	return nil
}

func (r *Reconciler) handleSessionCompleted(ctx context.Context, event *gateway.Event, body []byte) {
	obj := event.Data.Object

	registrationID := obj.Metadata["registration_id"]
	if registrationID == "" {
		r.logger.Warn("Completed session without registration metadata",
			zap.String("session_id", obj.ID))
		util.WebhookEventsTotal.WithLabelValues(event.Type, "no_registration").Inc()
		return
	}

	paymentType := obj.Metadata["payment_type"]
	paymentStatus := PaymentStatusFor(paymentType)

	// Gateway totals are minor units; the store keeps euros.
	amountPaid := obj.AmountTotal / 100

	if r.store == nil {
		r.logger.Warn("Store not configured, dropping reconciliation",
			zap.String("registration_id", registrationID))
		util.WebhookEventsTotal.WithLabelValues(event.Type, "no_store").Inc()
		return
	}

	now := time.Now()
	if err := r.store.UpdateRegistrationPayment(ctx, registrationID, paymentStatus, amountPaid, obj.ID, now, models.StatusConfirmed); err != nil {
		r.logger.Error("Failed to update registration from webhook",
			zap.String("registration_id", registrationID),
			zap.String("session_id", obj.ID),
			zap.Error(err))
		util.WebhookEventsTotal.WithLabelValues(event.Type, "store_error").Inc()
		return
	}

	util.WebhookEventsTotal.WithLabelValues(event.Type, "applied").Inc()
	util.PaymentsReconciledTotal.WithLabelValues(paymentStatus).Inc()
	r.logger.Info("Payment reconciled",
		zap.String("registration_id", registrationID),
		zap.String("payment_status", paymentStatus),
		zap.Int64("amount_paid", amountPaid))

	// The registration update is authoritative; the ledger is a
	// supplementary audit trail. A ledger failure is logged, not rolled back.
	entry := &models.PaymentLedgerEntry{
		RegistrationID: registrationID,
		Method:         obj.PaymentMethod,
		Type:           paymentType,
		Amount:         obj.AmountTotal,
		Currency:       obj.Currency,
		SessionID:      obj.ID,
		IntentID:       obj.PaymentIntent,
		Status:         "completed",
		Metadata:       body,
	}
	if err := r.store.InsertLedgerEntry(ctx, entry); err != nil {
		r.logger.Error("Failed to append ledger entry",
			zap.String("registration_id", registrationID),
			zap.String("session_id", obj.ID),
			zap.Error(err))
		util.LedgerAppendFailedTotal.Inc()
	}

	if r.publisher != nil {
		reconciled := &models.PaymentReconciledEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypePaymentReconciled,
				Timestamp: now,
			},
			RegistrationID: registrationID,
			PaymentStatus:  paymentStatus,
			PaymentType:    paymentType,
			Amount:         obj.AmountTotal,
			SessionID:      obj.ID,
		}
		if err := r.publisher.PublishPaymentReconciled(ctx, reconciled); err != nil {
			r.logger.Error("Failed to publish PaymentReconciled event", zap.Error(err))
		}
	}
}

func (r *Reconciler) handlePaymentFailed(ctx context.Context, event *gateway.Event) {
	obj := event.Data.Object

	registrationID := obj.Metadata["registration_id"]
	if registrationID == "" {
		r.logger.Warn("Failed payment without registration metadata",
			zap.String("session_id", obj.ID))
		util.WebhookEventsTotal.WithLabelValues(event.Type, "no_registration").Inc()
		return
	}

	if r.store == nil {
		util.WebhookEventsTotal.WithLabelValues(event.Type, "no_store").Inc()
		return
	}

	if err := r.store.UpdatePaymentStatus(ctx, registrationID, models.PaymentStatusFailed); err != nil {
		r.logger.Error("Failed to mark payment failed",
			zap.String("registration_id", registrationID),
			zap.Error(err))
		util.WebhookEventsTotal.WithLabelValues(event.Type, "store_error").Inc()
		return
	}

	util.WebhookEventsTotal.WithLabelValues(event.Type, "applied").Inc()
	r.logger.Warn("Payment failed",
		zap.String("registration_id", registrationID),
		zap.String("reason", obj.FailureReason))

	if r.publisher != nil {
		failed := &models.PaymentFailedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypePaymentFailed,
				Timestamp: time.Now(),
			},
			RegistrationID: registrationID,
			SessionID:      obj.ID,
			Reason:         obj.FailureReason,
		}
		if err := r.publisher.PublishPaymentFailed(ctx, failed); err != nil {
			r.logger.Error("Failed to publish PaymentFailed event", zap.Error(err))
		}
	}
}
