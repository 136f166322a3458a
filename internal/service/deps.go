package service

import (
	"context"
	"time"

	"camp-service/internal/models"
)

// RegistrationStore is the store surface the services need. *store.Store
// satisfies it; tests use fakes. A nil store means the backing database is
// not configured and callers degrade to demo/fixture behavior.
type RegistrationStore interface {
	CreateRegistration(ctx context.Context, reg *models.Registration) error
	GetRegistrationByID(ctx context.Context, id string) (*models.Registration, error)
	ListRegistrations(ctx context.Context) ([]models.Registration, error)
	UpdateRegistrationPayment(ctx context.Context, id, paymentStatus string, amountPaid int64, sessionID string, paidAt time.Time, status string) error
	UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error
	UpdateRegistrationStatus(ctx context.Context, id, status string) error
	InsertLedgerEntry(ctx context.Context, entry *models.PaymentLedgerEntry) error
}

// GalleryStore is the gallery surface of the store.
type GalleryStore interface {
	ListGalleryPhotos(ctx context.Context, category string) ([]models.GalleryPhoto, error)
	UpdateGalleryPhoto(ctx context.Context, id int64, featured bool, sortOrder int) error
}

// EventDeduper short-circuits webhook replays. Best effort only; the
// reconciler stays correct without it.
type EventDeduper interface {
	MarkEventProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
}

// Publisher publishes domain events to the broker.
type Publisher interface {
	PublishRegistrationCreated(ctx context.Context, event *models.RegistrationCreatedEvent) error
	PublishPaymentReconciled(ctx context.Context, event *models.PaymentReconciledEvent) error
	PublishPaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error
}
