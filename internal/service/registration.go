package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"camp-service/internal/models"
	"camp-service/internal/pricing"
	"camp-service/internal/util"
	"camp-service/internal/validate"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DevIDPrefix marks registration ids synthesized without a backing store.
const DevIDPrefix = "dev-"

var (
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrInvalidTaxID     = errors.New("invalid tax id")
	ErrInvalidBirthDate = errors.New("invalid birth date")
)

// RegistrationService creates registration records.
type RegistrationService struct {
	store     RegistrationStore // nil when the store is unconfigured
	publisher Publisher
	logger    *zap.Logger
}

// NewRegistrationService creates a new registration service.
func NewRegistrationService(store RegistrationStore, publisher Publisher) *RegistrationService {
	return &RegistrationService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CreateRegistrationRequest carries the full registrant/participant field
// set. Consent flags bind as required, so false is rejected.
type CreateRegistrationRequest struct {
	Package   string `json:"package" binding:"required"`
	Transport bool   `json:"transport"`

	GuardianName    string `json:"guardian_name" binding:"required"`
	GuardianAddress string `json:"guardian_address"`
	GuardianPhone   string `json:"guardian_phone"`
	GuardianEmail   string `json:"guardian_email" binding:"required,email"`
	GuardianTaxID   string `json:"guardian_tax_id"`

	ParticipantName string `json:"participant_name" binding:"required"`
	BirthDate       string `json:"birth_date"` // YYYY-MM-DD
	Size            string `json:"size"`
	Experience      string `json:"experience"`
	MedicalNotes    string `json:"medical_notes"`
	AllergyNotes    string `json:"allergy_notes"`

	ConsentMedia   bool `json:"consent_media" binding:"required"`
	ConsentRules   bool `json:"consent_rules" binding:"required"`
	ConsentPrivacy bool `json:"consent_privacy" binding:"required"`
}

// CreateRegistrationResponse returns the assigned id
type CreateRegistrationResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Source string `json:"source"` // live | dev
}

// Validate checks the field-level rules the binding tags cannot express.
func (req *CreateRegistrationRequest) Validate() error {
	if !pricing.Known(req.Package) {
		return fmt.Errorf("%w: %s", pricing.ErrUnknownPackage, req.Package)
	}
	if !validate.IsValidPhone(req.GuardianPhone) {
		return ErrInvalidPhone
	}
	if !validate.IsValidTaxID(req.GuardianTaxID) {
		return ErrInvalidTaxID
	}
	if req.BirthDate != "" {
		if _, err := time.Parse("2006-01-02", req.BirthDate); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidBirthDate, req.BirthDate)
		}
	}
	return nil
}

// Create inserts a new pending registration. Without a configured store it
// returns a synthesized development-mode id and persists nothing.
func (rs *RegistrationService) Create(ctx context.Context, req *CreateRegistrationRequest) (*CreateRegistrationResponse, error) {
	ctx, span := util.StartSpan(ctx, "RegistrationService.Create")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if rs.store == nil {
		id := DevIDPrefix + uuid.New().String()
		rs.logger.Warn("Store not configured, returning dev registration id",
			zap.String("id", id))
		return &CreateRegistrationResponse{
			ID:     id,
			Status: models.StatusPending,
			Source: "dev",
		}, nil
	}

	reg := &models.Registration{
		Package:         req.Package,
		Transport:       req.Transport,
		GuardianName:    req.GuardianName,
		GuardianAddress: req.GuardianAddress,
		GuardianPhone:   req.GuardianPhone,
		GuardianEmail:   req.GuardianEmail,
		GuardianTaxID:   req.GuardianTaxID,
		ParticipantName: req.ParticipantName,
		Size:            req.Size,
		Experience:      req.Experience,
		MedicalNotes:    req.MedicalNotes,
		AllergyNotes:    req.AllergyNotes,
		ConsentMedia:    req.ConsentMedia,
		ConsentRules:    req.ConsentRules,
		ConsentPrivacy:  req.ConsentPrivacy,
		Status:          models.StatusPending,
		PaymentStatus:   models.PaymentStatusPending,
	}
	if req.BirthDate != "" {
		birth, _ := time.Parse("2006-01-02", req.BirthDate)
		reg.BirthDate = &birth
	}

	if err := rs.store.CreateRegistration(ctx, reg); err != nil {
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	util.RegistrationsCreatedTotal.Inc()
	rs.logger.Info("Registration created",
		zap.String("id", reg.ID),
		zap.String("package", reg.Package))

	if rs.publisher != nil {
		event := &models.RegistrationCreatedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeRegistrationCreated,
				Timestamp: time.Now(),
			},
			RegistrationID:  reg.ID,
			Package:         reg.Package,
			GuardianEmail:   reg.GuardianEmail,
			ParticipantName: reg.ParticipantName,
		}
		if err := rs.publisher.PublishRegistrationCreated(ctx, event); err != nil {
			rs.logger.Error("Failed to publish RegistrationCreated event", zap.Error(err))
		}
	}

	return &CreateRegistrationResponse{
		ID:     reg.ID,
		Status: reg.Status,
		Source: "live",
	}, nil
}
