package service

import (
	"context"
	"encoding/json"
	"testing"

	"camp-service/internal/gateway"
	"camp-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func pendingRegistration(id string) *models.Registration {
	return &models.Registration{
		ID:            id,
		Package:       "junior-biweek",
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}
}

func completedEventBody(t *testing.T, eventID, regID, paymentType string, amount int64) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":   eventID,
		"type": gateway.EventSessionCompleted,
		"data": map[string]any{
			"object": map[string]any{
				"id":                  "cs_123",
				"payment_intent":      "pi_456",
				"amount_total":        amount,
				"currency":            "eur",
				"payment_method_type": "card",
				"metadata": map[string]string{
					"registration_id": regID,
					"payment_type":    paymentType,
				},
			},
		},
	})
	require.NoError(t, err)
	return body
}

func TestProcessRejectsWhenSecretMissing(t *testing.T) {
	fs := newFakeStore(pendingRegistration("reg-1"))
	r := NewReconciler(fs, nil, nil, "")

	body := completedEventBody(t, "evt-1", "reg-1", models.PaymentTypeFull, 35000)
	err := r.Process(context.Background(), body, gateway.Sign(testSecret, body))

	assert.ErrorIs(t, err, ErrWebhookNotConfigured)
	assert.Equal(t, models.PaymentStatusPending, fs.regs["reg-1"].PaymentStatus)
}

func TestProcessRejectsInvalidSignature(t *testing.T) {
	fs := newFakeStore(pendingRegistration("reg-1"))
	r := NewReconciler(fs, nil, nil, testSecret)

	// A payload that would otherwise be a perfectly valid completed event.
	body := completedEventBody(t, "evt-1", "reg-1", models.PaymentTypeFull, 35000)

	err := r.Process(context.Background(), body, "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	err = r.Process(context.Background(), body, "")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// No mutation happened.
	assert.Equal(t, models.PaymentStatusPending, fs.regs["reg-1"].PaymentStatus)
	assert.Equal(t, models.StatusPending, fs.regs["reg-1"].Status)
	assert.Empty(t, fs.ledger)
}

func TestProcessDepositCompleted(t *testing.T) {
	fs := newFakeStore(pendingRegistration("reg-1"))
	pub := &fakePublisher{}
	r := NewReconciler(fs, nil, pub, testSecret)

	body := completedEventBody(t, "evt-1", "reg-1", models.PaymentTypeDeposit, 20000)
	err := r.Process(context.Background(), body, gateway.Sign(testSecret, body))
	require.NoError(t, err)

	reg := fs.regs["reg-1"]
	assert.Equal(t, models.PaymentStatusPartial, reg.PaymentStatus)
	assert.Equal(t, models.StatusConfirmed, reg.Status)
	assert.Equal(t, int64(200), reg.AmountPaid)
	assert.Equal(t, "cs_123", reg.SessionID)
	assert.NotNil(t, reg.PaidAt)

	require.Len(t, fs.ledger, 1)
	entry := fs.ledger[0]
	assert.Equal(t, "reg-1", entry.RegistrationID)
	assert.Equal(t, "card", entry.Method)
	assert.Equal(t, models.PaymentTypeDeposit, entry.Type)
	assert.Equal(t, int64(20000), entry.Amount)
	assert.Equal(t, "pi_456", entry.IntentID)
	assert.JSONEq(t, string(body), string(entry.Metadata))

	require.Len(t, pub.reconciled, 1)
	assert.Equal(t, models.PaymentStatusPartial, pub.reconciled[0].PaymentStatus)
}

func TestProcessFullPaymentCompleted(t *testing.T) {
	fs := newFakeStore(pendingRegistration("reg-1"))
	r := NewReconciler(fs, nil, nil, testSecret)

	body := completedEventBody(t, "evt-1", "reg-1", models.PaymentTypeFull, 62000)
	err := r.Process(context.Background(), body, gateway.Sign(testSecret, body))
	require.NoError(t, err)

	reg := fs.regs["reg-1"]
	assert.Equal(t, models.PaymentStatusPaid, reg.PaymentStatus)
	assert.Equal(t, models.StatusConfirmed, reg.Status)
	assert.Equal(t, int64(620), reg.AmountPaid)
}

func TestProcessReplayIsIdempotent(t *testing.T) {
	fs := newFakeStore(pendingRegistration("reg-1"))
	r := NewReconciler(fs, nil, nil, testSecret)

	body := completedEventBody(t, "evt-1", "reg-1", models.PaymentTypeDeposit, 20000)
	sig := gateway.Sign(testSecret, body)

	require.NoError(t, r.Process(context.Background(), body, sig))
	first := *fs.regs["reg-1"]

	require.NoError(t, r.Process(context.Background(), body, sig))
	second := *fs.regs["reg-1"]

	assert.Equal(t, first.PaymentStatus, second.PaymentStatus)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.AmountPaid, second.AmountPaid)
	assert.Equal(t, first.SessionID, second.SessionID)
}

func TestProcessReplayShortCircuitsWithDedupe(t *testing.T) {
	fs := newFakeStore(pendingRegistration("reg-1"))
	r := NewReconciler(fs, newFakeDeduper(), nil, testSecret)

	body := completedEventBody(t, "evt-1", "reg-1", models.PaymentTypeDeposit, 20000)
	sig := gateway.Sign(testSecret, body)

	require.NoError(t, r.Process(context.Background(), body, sig))
	require.NoError(t, r.Process(context.Background(), body, sig))

	// Second delivery was deduped before the ledger append.
	assert.Len(t, fs.ledger, 1)
	assert.Equal(t, models.PaymentStatusPartial, fs.regs["reg-1"].PaymentStatus)
}

func TestProcessLedgerFailureStillAcks(t *testing.T) {
	fs := newFakeStore(pendingRegistration("reg-1"))
	fs.ledgerErr = assert.AnError
	r := NewReconciler(fs, nil, nil, testSecret)

	body := completedEventBody(t, "evt-1", "reg-1", models.PaymentTypeDeposit, 20000)
	err := r.Process(context.Background(), body, gateway.Sign(testSecret, body))

	// The registration update stands and the event is acknowledged even
	// though the audit append failed.
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartial, fs.regs["reg-1"].PaymentStatus)
	assert.Equal(t, models.StatusConfirmed, fs.regs["reg-1"].Status)
	assert.Empty(t, fs.ledger)
}

func TestProcessStoreFailureStillAcks(t *testing.T) {
	fs := newFakeStore(pendingRegistration("reg-1"))
	fs.updateErr = assert.AnError
	r := NewReconciler(fs, nil, nil, testSecret)

	body := completedEventBody(t, "evt-1", "reg-1", models.PaymentTypeDeposit, 20000)
	err := r.Process(context.Background(), body, gateway.Sign(testSecret, body))

	require.NoError(t, err)
	assert.Empty(t, fs.ledger)
}

func TestProcessCompletedWithoutRegistrationMetadata(t *testing.T) {
	fs := newFakeStore(pendingRegistration("reg-1"))
	r := NewReconciler(fs, nil, nil, testSecret)

	body := completedEventBody(t, "evt-1", "", models.PaymentTypeFull, 35000)
	err := r.Process(context.Background(), body, gateway.Sign(testSecret, body))

	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, fs.regs["reg-1"].PaymentStatus)
	assert.Empty(t, fs.ledger)
}

func TestProcessPaymentFailed(t *testing.T) {
	fs := newFakeStore(pendingRegistration("reg-1"))
	pub := &fakePublisher{}
	r := NewReconciler(fs, nil, pub, testSecret)

	body, err := json.Marshal(map[string]any{
		"id":   "evt-2",
		"type": gateway.EventPaymentFailed,
		"data": map[string]any{
			"object": map[string]any{
				"id":             "cs_123",
				"failure_reason": "card_declined",
				"metadata":       map[string]string{"registration_id": "reg-1"},
			},
		},
	})
	require.NoError(t, err)

	require.NoError(t, r.Process(context.Background(), body, gateway.Sign(testSecret, body)))

	assert.Equal(t, models.PaymentStatusFailed, fs.regs["reg-1"].PaymentStatus)
	// Failure does not confirm the registration.
	assert.Equal(t, models.StatusPending, fs.regs["reg-1"].Status)
	require.Len(t, pub.failed, 1)
	assert.Equal(t, "card_declined", pub.failed[0].Reason)
}

func TestProcessPaymentSucceededIsAuditOnly(t *testing.T) {
	fs := newFakeStore(pendingRegistration("reg-1"))
	r := NewReconciler(fs, nil, nil, testSecret)

	body, err := json.Marshal(map[string]any{
		"id":   "evt-3",
		"type": gateway.EventPaymentSucceeded,
		"data": map[string]any{
			"object": map[string]any{
				"id":           "pi_456",
				"amount_total": 20000,
				"metadata":     map[string]string{"registration_id": "reg-1"},
			},
		},
	})
	require.NoError(t, err)

	require.NoError(t, r.Process(context.Background(), body, gateway.Sign(testSecret, body)))

	assert.Equal(t, models.PaymentStatusPending, fs.regs["reg-1"].PaymentStatus)
	assert.Empty(t, fs.ledger)
}

func TestProcessUnknownEventTypeAcks(t *testing.T) {
	r := NewReconciler(newFakeStore(), nil, nil, testSecret)

	body := []byte(`{"id":"evt-4","type":"customer.updated","data":{"object":{}}}`)
	assert.NoError(t, r.Process(context.Background(), body, gateway.Sign(testSecret, body)))
}

func TestProcessMalformedVerifiedBodyAcks(t *testing.T) {
	r := NewReconciler(newFakeStore(), nil, nil, testSecret)

	body := []byte(`{broken`)
	assert.NoError(t, r.Process(context.Background(), body, gateway.Sign(testSecret, body)))
}
