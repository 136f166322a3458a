package models

import (
	"encoding/json"
	"time"
)

// Registration represents one participant enrollment attempt
type Registration struct {
	ID string `db:"id" json:"id"`

	Package   string `db:"package" json:"package"`
	Transport bool   `db:"transport" json:"transport"`

	GuardianName    string `db:"guardian_name" json:"guardian_name"`
	GuardianAddress string `db:"guardian_address" json:"guardian_address"`
	GuardianPhone   string `db:"guardian_phone" json:"guardian_phone"`
	GuardianEmail   string `db:"guardian_email" json:"guardian_email"`
	GuardianTaxID   string `db:"guardian_tax_id" json:"guardian_tax_id"`

	ParticipantName string     `db:"participant_name" json:"participant_name"`
	BirthDate       *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Size            string     `db:"size" json:"size"`
	Experience      string     `db:"experience" json:"experience"`
	MedicalNotes    string     `db:"medical_notes" json:"medical_notes,omitempty"`
	AllergyNotes    string     `db:"allergy_notes" json:"allergy_notes,omitempty"`

	ConsentMedia   bool `db:"consent_media" json:"consent_media"`
	ConsentRules   bool `db:"consent_rules" json:"consent_rules"`
	ConsentPrivacy bool `db:"consent_privacy" json:"consent_privacy"`

	Status        string `db:"status" json:"status"`
	PaymentStatus string `db:"payment_status" json:"payment_status"`

	// AmountPaid is in major currency units (euros), converted from the
	// gateway's minor-unit totals. Only the reconciler writes it.
	AmountPaid int64      `db:"amount_paid" json:"amount_paid"`
	SessionID  string     `db:"session_id" json:"session_id,omitempty"`
	PaidAt     *time.Time `db:"paid_at" json:"paid_at,omitempty"`

	CreatedAt *time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// PaymentLedgerEntry is an append-only audit record written for every
// reconciled gateway event. Never mutated; current state lives on Registration.
type PaymentLedgerEntry struct {
	ID             int64           `db:"id" json:"id"`
	RegistrationID string          `db:"registration_id" json:"registration_id"`
	Method         string          `db:"method" json:"method"`
	Type           string          `db:"type" json:"type"`
	Amount         int64           `db:"amount" json:"amount"`
	Currency       string          `db:"currency" json:"currency"`
	SessionID      string          `db:"session_id" json:"session_id"`
	IntentID       string          `db:"intent_id" json:"intent_id,omitempty"`
	Status         string          `db:"status" json:"status"`
	Metadata       json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// GalleryPhoto represents a photo shown on the marketing site
type GalleryPhoto struct {
	ID        int64     `db:"id" json:"id"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	Category  string    `db:"category" json:"category"`
	Year      int       `db:"year" json:"year"`
	Featured  bool      `db:"featured" json:"featured"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Registration statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Payment statuses
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPartial  = "partial"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Payment types
const (
	PaymentTypeFull    = "full"
	PaymentTypeDeposit = "deposit"
)

// ValidStatus reports whether s is a known registration status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}
