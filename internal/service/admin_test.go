package service

import (
	"context"
	"testing"
	"time"

	"camp-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatsRevenueAndCounts(t *testing.T) {
	regs := []models.Registration{
		{Status: models.StatusConfirmed, PaymentStatus: models.PaymentStatusPaid, AmountPaid: 300},
		{Status: models.StatusCancelled, PaymentStatus: models.PaymentStatusPending},
	}

	stats := ComputeStats(regs, time.Now())

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, int64(300), stats.Revenue)
	// The cancelled record's pending payment is excluded.
	assert.Equal(t, 0, stats.PendingPayments)
	assert.Equal(t, 1, stats.ByStatus[models.StatusConfirmed])
	assert.Equal(t, 1, stats.ByStatus[models.StatusCancelled])
}

func TestComputeStatsPartialCountsAsRevenue(t *testing.T) {
	regs := []models.Registration{
		{Status: models.StatusPending, PaymentStatus: models.PaymentStatusPartial, AmountPaid: 200},
		{Status: models.StatusPending, PaymentStatus: models.PaymentStatusPending},
	}

	stats := ComputeStats(regs, time.Now())

	assert.Equal(t, int64(200), stats.Revenue)
	assert.Equal(t, 1, stats.PendingPayments)
}

func TestComputeStatsDistributions(t *testing.T) {
	birth := time.Date(2018, 6, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	regs := []models.Registration{
		{Package: "junior-week", Size: "S", Experience: "beginner", BirthDate: &birth, AllergyNotes: "noci"},
		{Package: "junior-week", Size: "M", Experience: "beginner", MedicalNotes: "asma"},
		{Package: "elite-month", Size: "S", AllergyNotes: "   "},
	}

	stats := ComputeStats(regs, now)

	assert.Equal(t, 2, stats.ByPackage["junior-week"])
	assert.Equal(t, 1, stats.ByPackage["elite-month"])
	assert.Equal(t, 2, stats.BySize["S"])
	assert.Equal(t, 2, stats.ByExperience["beginner"])
	assert.Equal(t, 1, stats.ByAge["6-8"])
	// Whitespace-only notes do not count.
	assert.Equal(t, 1, stats.WithAllergies)
	assert.Equal(t, 1, stats.WithMedicalNotes)
}

func TestAgeBucket(t *testing.T) {
	// A few days before the 8th birthday: still 7, bucket 6-8.
	birth := time.Date(2018, 6, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "6-8", AgeBucket(birth, now))

	// The day after the 9th birthday moves to 9-11.
	birth = time.Date(2017, 6, 10, 0, 0, 0, 0, time.UTC)
	now = time.Date(2026, 6, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "9-11", AgeBucket(birth, now))

	// Birthday itself counts.
	now = time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "9-11", AgeBucket(birth, now))

	assert.Equal(t, "under-6", AgeBucket(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "12-14", AgeBucket(time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "15-plus", AgeBucket(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), now))
}

func TestRecentRegistrationsOrdering(t *testing.T) {
	t1 := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)

	regs := []models.Registration{
		{ID: "a", CreatedAt: &t1},
		{ID: "no-ts-1"},
		{ID: "b", CreatedAt: &t2},
		{ID: "no-ts-2"},
	}

	recent := recentRegistrations(regs, 10)

	require.Len(t, recent, 4)
	assert.Equal(t, "b", recent[0].ID)
	assert.Equal(t, "a", recent[1].ID)
	// Missing timestamps sort last, keeping input order.
	assert.Equal(t, "no-ts-1", recent[2].ID)
	assert.Equal(t, "no-ts-2", recent[3].ID)
}

func TestRecentRegistrationsLimit(t *testing.T) {
	regs := make([]models.Registration, 15)
	for i := range regs {
		ts := time.Date(2026, 5, 1, i, 0, 0, 0, time.UTC)
		regs[i] = models.Registration{ID: string(rune('a' + i)), CreatedAt: &ts}
	}

	recent := recentRegistrations(regs, 10)
	require.Len(t, recent, 10)
	assert.Equal(t, regs[14].ID, recent[0].ID)
}

func TestListRegistrationsFallback(t *testing.T) {
	as := NewAdminService(nil, nil)

	regs, source, err := as.ListRegistrations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, source)
	assert.NotEmpty(t, regs)
}

func TestListRegistrationsStoreErrorFallsBack(t *testing.T) {
	fs := newFakeStore()
	fs.listErr = assert.AnError
	as := NewAdminService(fs, nil)

	regs, source, err := as.ListRegistrations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, source)
	assert.NotEmpty(t, regs)
}

func TestListRegistrationsLive(t *testing.T) {
	fs := newFakeStore(pendingRegistration("reg-1"))
	as := NewAdminService(fs, nil)

	regs, source, err := as.ListRegistrations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceLive, source)
	assert.Len(t, regs, 1)
}

func TestStatsFallbackProvenance(t *testing.T) {
	as := NewAdminService(nil, nil)

	stats, source, err := as.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, source)
	assert.Equal(t, len(FixtureRegistrations()), stats.Total)
}

func TestUpdateStatus(t *testing.T) {
	fs := newFakeStore(pendingRegistration("reg-1"))
	as := NewAdminService(fs, nil)

	simulated, err := as.UpdateStatus(context.Background(), "reg-1", models.StatusConfirmed)
	require.NoError(t, err)
	assert.False(t, simulated)
	assert.Equal(t, models.StatusConfirmed, fs.regs["reg-1"].Status)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	as := NewAdminService(newFakeStore(), nil)

	_, err := as.UpdateStatus(context.Background(), "reg-1", "archived")
	assert.Error(t, err)
}

func TestUpdateStatusSimulatedWithoutStore(t *testing.T) {
	as := NewAdminService(nil, nil)

	simulated, err := as.UpdateStatus(context.Background(), "reg-1", models.StatusCancelled)
	require.NoError(t, err)
	assert.True(t, simulated)
}
