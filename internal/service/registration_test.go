package service

import (
	"context"
	"strings"
	"testing"

	"camp-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistrationRequest() *CreateRegistrationRequest {
	return &CreateRegistrationRequest{
		Package:         "junior-week",
		GuardianName:    "Laura Bianchi",
		GuardianPhone:   "333 1234567",
		GuardianEmail:   "laura@example.com",
		GuardianTaxID:   "RSSMRA85A41H501Z",
		ParticipantName: "Marco Bianchi",
		BirthDate:       "2017-04-12",
		ConsentMedia:    true,
		ConsentRules:    true,
		ConsentPrivacy:  true,
	}
}

func TestCreateRegistration(t *testing.T) {
	fs := newFakeStore()
	pub := &fakePublisher{}
	rs := NewRegistrationService(fs, pub)

	resp, err := rs.Create(context.Background(), validRegistrationRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, models.StatusPending, resp.Status)
	assert.Equal(t, "live", resp.Source)

	reg := fs.regs[resp.ID]
	require.NotNil(t, reg)
	assert.Equal(t, models.PaymentStatusPending, reg.PaymentStatus)
	assert.NotNil(t, reg.BirthDate)

	require.Len(t, pub.created, 1)
	assert.Equal(t, resp.ID, pub.created[0].RegistrationID)
}

func TestCreateRegistrationDevMode(t *testing.T) {
	rs := NewRegistrationService(nil, nil)

	resp, err := rs.Create(context.Background(), validRegistrationRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.ID, DevIDPrefix))
	assert.Equal(t, "dev", resp.Source)
}

func TestCreateRegistrationValidation(t *testing.T) {
	rs := NewRegistrationService(newFakeStore(), nil)

	req := validRegistrationRequest()
	req.Package = "senior-week"
	_, err := rs.Create(context.Background(), req)
	assert.Error(t, err)

	req = validRegistrationRequest()
	req.GuardianPhone = "123"
	_, err = rs.Create(context.Background(), req)
	assert.Error(t, err)

	req = validRegistrationRequest()
	req.GuardianTaxID = "RSSMRA85A32H501Z"
	_, err = rs.Create(context.Background(), req)
	assert.Error(t, err)

	req = validRegistrationRequest()
	req.BirthDate = "12/04/2017"
	_, err = rs.Create(context.Background(), req)
	assert.Error(t, err)
}

func TestCreateRegistrationEmptyOptionalFields(t *testing.T) {
	rs := NewRegistrationService(newFakeStore(), nil)

	req := validRegistrationRequest()
	req.GuardianPhone = ""
	req.GuardianTaxID = ""
	req.BirthDate = ""

	resp, err := rs.Create(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
}
