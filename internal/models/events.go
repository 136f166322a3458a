package models

import "time"

// Event types
const (
	EventTypeRegistrationCreated = "REGISTRATION_CREATED"
	EventTypePaymentReconciled   = "PAYMENT_RECONCILED"
	EventTypePaymentFailed       = "PAYMENT_FAILED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// RegistrationCreatedEvent published when a registration is submitted
type RegistrationCreatedEvent struct {
	BaseEvent
	RegistrationID  string `json:"registration_id"`
	Package         string `json:"package"`
	GuardianEmail   string `json:"guardian_email"`
	ParticipantName string `json:"participant_name"`
}

// PaymentReconciledEvent published after a verified gateway event is applied
type PaymentReconciledEvent struct {
	BaseEvent
	RegistrationID string `json:"registration_id"`
	PaymentStatus  string `json:"payment_status"`
	PaymentType    string `json:"payment_type"`
	Amount         int64  `json:"amount"`
	SessionID      string `json:"session_id"`
}

// PaymentFailedEvent published when the gateway reports a failed attempt
type PaymentFailedEvent struct {
	BaseEvent
	RegistrationID string `json:"registration_id"`
	SessionID      string `json:"session_id"`
	Reason         string `json:"reason"`
}
