package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"camp-service/internal/models"
)

// CreateRegistration inserts a new registration with pending statuses.
// The id is store-assigned.
func (s *Store) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (
			package, transport,
			guardian_name, guardian_address, guardian_phone, guardian_email, guardian_tax_id,
			participant_name, birth_date, size, experience, medical_notes, allergy_notes,
			consent_media, consent_rules, consent_privacy,
			status, payment_status, amount_paid
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, created_at, updated_at`

	row := s.db.QueryRowxContext(ctx, query,
		reg.Package, reg.Transport,
		reg.GuardianName, reg.GuardianAddress, reg.GuardianPhone, reg.GuardianEmail, reg.GuardianTaxID,
		reg.ParticipantName, reg.BirthDate, reg.Size, reg.Experience, reg.MedicalNotes, reg.AllergyNotes,
		reg.ConsentMedia, reg.ConsentRules, reg.ConsentPrivacy,
		reg.Status, reg.PaymentStatus, reg.AmountPaid)

	return row.Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
}

// GetRegistrationByID retrieves a registration by id
func (s *Store) GetRegistrationByID(ctx context.Context, id string) (*models.Registration, error) {
	var reg models.Registration
	err := s.db.GetContext(ctx, &reg, "SELECT * FROM registrations WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("registration not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// ListRegistrations retrieves all registrations, newest first
func (s *Store) ListRegistrations(ctx context.Context) ([]models.Registration, error) {
	var regs []models.Registration
	err := s.db.SelectContext(ctx, &regs,
		"SELECT * FROM registrations ORDER BY created_at DESC NULLS LAST")
	return regs, err
}

// UpdateRegistrationPayment applies a reconciled payment outcome. The values
// are recomputed from the gateway event, so re-applying the same event is a
// no-op in effect.
func (s *Store) UpdateRegistrationPayment(ctx context.Context, id, paymentStatus string, amountPaid int64, sessionID string, paidAt time.Time, status string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE registrations
		SET payment_status = $1, amount_paid = $2, session_id = $3, paid_at = $4, status = $5, updated_at = NOW()
		WHERE id = $6`,
		paymentStatus, amountPaid, sessionID, paidAt, status, id)
	return err
}

// UpdatePaymentStatus updates only the payment status
func (s *Store) UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE registrations SET payment_status = $1, updated_at = NOW() WHERE id = $2",
		paymentStatus, id)
	return err
}

// UpdateRegistrationStatus updates the registration status (admin edits)
func (s *Store) UpdateRegistrationStatus(ctx context.Context, id, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE registrations SET status = $1, updated_at = NOW() WHERE id = $2",
		status, id)
	return err
}
