package store

import (
	"context"

	"camp-service/internal/models"
)

// InsertLedgerEntry appends one audit record. Entries are never updated.
func (s *Store) InsertLedgerEntry(ctx context.Context, entry *models.PaymentLedgerEntry) error {
	query := `
		INSERT INTO payment_ledger (registration_id, method, type, amount, currency, session_id, intent_id, status, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	row := s.db.QueryRowxContext(ctx, query,
		entry.RegistrationID, entry.Method, entry.Type, entry.Amount, entry.Currency,
		entry.SessionID, entry.IntentID, entry.Status, entry.Metadata)

	return row.Scan(&entry.ID, &entry.CreatedAt)
}

// GetLedgerByRegistrationID retrieves ledger entries for a registration
func (s *Store) GetLedgerByRegistrationID(ctx context.Context, registrationID string) ([]models.PaymentLedgerEntry, error) {
	var entries []models.PaymentLedgerEntry
	err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM payment_ledger WHERE registration_id = $1 ORDER BY created_at", registrationID)
	return entries, err
}
