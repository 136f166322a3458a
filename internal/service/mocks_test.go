package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"camp-service/internal/gateway"
	"camp-service/internal/models"
)

// Hand-written fakes for the service dependency interfaces.

type fakeStore struct {
	regs      map[string]*models.Registration
	ledger    []models.PaymentLedgerEntry
	createErr error
	updateErr error
	ledgerErr error
	listErr   error
	nextID    int
}

func newFakeStore(regs ...*models.Registration) *fakeStore {
	fs := &fakeStore{regs: map[string]*models.Registration{}}
	for _, r := range regs {
		fs.regs[r.ID] = r
	}
	return fs
}

func (fs *fakeStore) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	if fs.createErr != nil {
		return fs.createErr
	}
	fs.nextID++
	reg.ID = fmt.Sprintf("reg-%d", fs.nextID)
	now := time.Now()
	reg.CreatedAt = &now
	reg.UpdatedAt = &now
	fs.regs[reg.ID] = reg
	return nil
}

func (fs *fakeStore) GetRegistrationByID(ctx context.Context, id string) (*models.Registration, error) {
	reg, ok := fs.regs[id]
	if !ok {
		return nil, errors.New("registration not found")
	}
	return reg, nil
}

func (fs *fakeStore) ListRegistrations(ctx context.Context) ([]models.Registration, error) {
	if fs.listErr != nil {
		return nil, fs.listErr
	}
	out := make([]models.Registration, 0, len(fs.regs))
	for _, r := range fs.regs {
		out = append(out, *r)
	}
	return out, nil
}

func (fs *fakeStore) UpdateRegistrationPayment(ctx context.Context, id, paymentStatus string, amountPaid int64, sessionID string, paidAt time.Time, status string) error {
	if fs.updateErr != nil {
		return fs.updateErr
	}
	reg, ok := fs.regs[id]
	if !ok {
		return errors.New("registration not found")
	}
	reg.PaymentStatus = paymentStatus
	reg.AmountPaid = amountPaid
	reg.SessionID = sessionID
	reg.PaidAt = &paidAt
	reg.Status = status
	return nil
}

func (fs *fakeStore) UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error {
	if fs.updateErr != nil {
		return fs.updateErr
	}
	reg, ok := fs.regs[id]
	if !ok {
		return errors.New("registration not found")
	}
	reg.PaymentStatus = paymentStatus
	return nil
}

func (fs *fakeStore) UpdateRegistrationStatus(ctx context.Context, id, status string) error {
	if fs.updateErr != nil {
		return fs.updateErr
	}
	reg, ok := fs.regs[id]
	if !ok {
		return errors.New("registration not found")
	}
	reg.Status = status
	return nil
}

func (fs *fakeStore) InsertLedgerEntry(ctx context.Context, entry *models.PaymentLedgerEntry) error {
	if fs.ledgerErr != nil {
		return fs.ledgerErr
	}
	entry.ID = int64(len(fs.ledger) + 1)
	entry.CreatedAt = time.Now()
	fs.ledger = append(fs.ledger, *entry)
	return nil
}

type fakePublisher struct {
	created    []*models.RegistrationCreatedEvent
	reconciled []*models.PaymentReconciledEvent
	failed     []*models.PaymentFailedEvent
}

func (fp *fakePublisher) PublishRegistrationCreated(ctx context.Context, event *models.RegistrationCreatedEvent) error {
	fp.created = append(fp.created, event)
	return nil
}

func (fp *fakePublisher) PublishPaymentReconciled(ctx context.Context, event *models.PaymentReconciledEvent) error {
	fp.reconciled = append(fp.reconciled, event)
	return nil
}

func (fp *fakePublisher) PublishPaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error {
	fp.failed = append(fp.failed, event)
	return nil
}

type fakeDeduper struct {
	seen map[string]bool
	err  error
}

func newFakeDeduper() *fakeDeduper {
	return &fakeDeduper{seen: map[string]bool{}}
}

func (fd *fakeDeduper) MarkEventProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	if fd.err != nil {
		return false, fd.err
	}
	if fd.seen[eventID] {
		return false, nil
	}
	fd.seen[eventID] = true
	return true, nil
}

type fakeGateway struct {
	createErr error
	session   *gateway.Session
	created   []*gateway.CreateSessionParams
}

func (fg *fakeGateway) CreateSession(ctx context.Context, params *gateway.CreateSessionParams) (*gateway.Session, error) {
	fg.created = append(fg.created, params)
	if fg.createErr != nil {
		return nil, fg.createErr
	}
	return fg.session, nil
}

func (fg *fakeGateway) GetSession(ctx context.Context, id string) (*gateway.Session, error) {
	if fg.session != nil && fg.session.ID == id {
		return fg.session, nil
	}
	return nil, errors.New("session not found")
}
