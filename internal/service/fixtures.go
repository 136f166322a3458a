package service

import (
	"time"

	"camp-service/internal/models"
)

// Fixture dataset served when the backing store is unreachable or not
// configured. Responses built from it carry the fallback provenance marker.

func fixtureTime(value string) *time.Time {
	t, _ := time.Parse(time.RFC3339, value)
	return &t
}

// FixtureRegistrations returns a copy of the bundled registration fixtures.
func FixtureRegistrations() []models.Registration {
	birth1 := time.Date(2017, 4, 12, 0, 0, 0, 0, time.UTC)
	birth2 := time.Date(2014, 9, 3, 0, 0, 0, 0, time.UTC)
	birth3 := time.Date(2012, 1, 25, 0, 0, 0, 0, time.UTC)

	return []models.Registration{
		{
			ID:              "fixture-1",
			Package:         "junior-week",
			GuardianName:    "Laura Bianchi",
			GuardianPhone:   "333 1234567",
			GuardianEmail:   "laura.bianchi@example.com",
			ParticipantName: "Marco Bianchi",
			BirthDate:       &birth1,
			Size:            "S",
			Experience:      "beginner",
			ConsentMedia:    true,
			ConsentRules:    true,
			ConsentPrivacy:  true,
			Status:          models.StatusConfirmed,
			PaymentStatus:   models.PaymentStatusPaid,
			AmountPaid:      350,
			CreatedAt:       fixtureTime("2026-05-02T09:15:00Z"),
		},
		{
			ID:              "fixture-2",
			Package:         "junior-biweek",
			GuardianName:    "Paolo Russo",
			GuardianPhone:   "+39 347 7654321",
			GuardianEmail:   "paolo.russo@example.com",
			ParticipantName: "Giulia Russo",
			BirthDate:       &birth2,
			Size:            "M",
			Experience:      "intermediate",
			AllergyNotes:    "lattosio",
			ConsentMedia:    true,
			ConsentRules:    true,
			ConsentPrivacy:  true,
			Status:          models.StatusConfirmed,
			PaymentStatus:   models.PaymentStatusPartial,
			AmountPaid:      200,
			CreatedAt:       fixtureTime("2026-05-10T17:42:00Z"),
		},
		{
			ID:              "fixture-3",
			Package:         "elite-month",
			Transport:       true,
			GuardianName:    "Anna Ferrari",
			GuardianPhone:   "02 1234567",
			GuardianEmail:   "anna.ferrari@example.com",
			ParticipantName: "Luca Ferrari",
			BirthDate:       &birth3,
			Size:            "L",
			Experience:      "advanced",
			MedicalNotes:    "asma lieve",
			ConsentMedia:    true,
			ConsentRules:    true,
			ConsentPrivacy:  true,
			Status:          models.StatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			CreatedAt:       fixtureTime("2026-05-18T11:05:00Z"),
		},
		{
			ID:              "fixture-4",
			Package:         "junior-week",
			GuardianName:    "Sergio Colombo",
			GuardianEmail:   "sergio.colombo@example.com",
			ParticipantName: "Elena Colombo",
			ConsentMedia:    true,
			ConsentRules:    true,
			ConsentPrivacy:  true,
			Status:          models.StatusCancelled,
			PaymentStatus:   models.PaymentStatusPending,
		},
	}
}

// FixtureGalleryPhotos returns the bundled gallery fixtures.
func FixtureGalleryPhotos() []models.GalleryPhoto {
	return []models.GalleryPhoto{
		{ID: 1, ImageURL: "/images/gallery/allenamento-1.jpg", Category: "training", Year: 2025, Featured: true, SortOrder: 1},
		{ID: 2, ImageURL: "/images/gallery/torneo-finale.jpg", Category: "matches", Year: 2025, Featured: true, SortOrder: 2},
		{ID: 3, ImageURL: "/images/gallery/premiazione.jpg", Category: "events", Year: 2024, Featured: false, SortOrder: 3},
		{ID: 4, ImageURL: "/images/gallery/gruppo-2024.jpg", Category: "group", Year: 2024, Featured: false, SortOrder: 4},
	}
}
