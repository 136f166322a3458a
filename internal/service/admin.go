package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"camp-service/internal/models"
	"camp-service/internal/redisclient"
	"camp-service/internal/util"

	"go.uber.org/zap"
)

// Data provenance markers on admin read responses.
const (
	SourceLive     = "live"
	SourceFallback = "fallback"
)

const recentLimit = 10

const statsCacheTTL = 60 * time.Second

// AdminService serves the dashboard: listing, manual status edits and
// aggregate stats. When the store is unreachable or unconfigured it falls
// back to bundled fixture data and flags the response provenance.
type AdminService struct {
	store  RegistrationStore
	cache  *redisclient.Client // nil when redis is unavailable
	logger *zap.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(store RegistrationStore, cache *redisclient.Client) *AdminService {
	return &AdminService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// Stats is the aggregate dashboard payload.
type Stats struct {
	Total            int                   `json:"total"`
	ByStatus         map[string]int        `json:"by_status"`
	Revenue          int64                 `json:"revenue"`
	PendingPayments  int                   `json:"pending_payments"`
	BySize           map[string]int        `json:"by_size"`
	ByAge            map[string]int        `json:"by_age"`
	ByExperience     map[string]int        `json:"by_experience"`
	WithAllergies    int                   `json:"with_allergies"`
	WithMedicalNotes int                   `json:"with_medical_notes"`
	ByPackage        map[string]int        `json:"by_package"`
	Recent           []models.Registration `json:"recent"`
}

// ListRegistrations returns all records with a provenance marker.
func (as *AdminService) ListRegistrations(ctx context.Context) ([]models.Registration, string, error) {
	if as.store == nil {
		util.FallbackReadsTotal.WithLabelValues("registrations").Inc()
		return FixtureRegistrations(), SourceFallback, nil
	}

	regs, err := as.store.ListRegistrations(ctx)
	if err != nil {
		as.logger.Error("Failed to list registrations, serving fixtures", zap.Error(err))
		util.FallbackReadsTotal.WithLabelValues("registrations").Inc()
		return FixtureRegistrations(), SourceFallback, nil
	}

	return regs, SourceLive, nil
}

// UpdateStatus applies a manual status transition. In fallback mode the
// update is simulated and reported as such.
func (as *AdminService) UpdateStatus(ctx context.Context, id, status string) (simulated bool, err error) {
	if !models.ValidStatus(status) {
		return false, fmt.Errorf("invalid status: %s", status)
	}

	if as.store == nil {
		as.logger.Warn("Store not configured, simulating status update",
			zap.String("id", id),
			zap.String("status", status))
		return true, nil
	}

	if err := as.store.UpdateRegistrationStatus(ctx, id, status); err != nil {
		return false, fmt.Errorf("failed to update status: %w", err)
	}

	as.invalidateStatsCache(ctx)
	return false, nil
}

// Stats returns the aggregate computation with a provenance marker.
// Results are cached briefly in redis when available.
func (as *AdminService) Stats(ctx context.Context) (*Stats, string, error) {
	if cached := as.cachedStats(ctx); cached != nil {
		return cached, SourceLive, nil
	}

	regs, source, err := as.ListRegistrations(ctx)
	if err != nil {
		return nil, source, err
	}

	stats := ComputeStats(regs, time.Now())

	if source == SourceLive {
		as.storeStatsCache(ctx, stats)
	}
	return stats, source, nil
}

func (as *AdminService) cachedStats(ctx context.Context) *Stats {
	if as.cache == nil || as.store == nil {
		return nil
	}
	raw, err := as.cache.GetCached(ctx, "admin:stats")
	if err != nil || raw == "" {
		return nil
	}
	var stats Stats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil
	}
	return &stats
}

func (as *AdminService) storeStatsCache(ctx context.Context, stats *Stats) {
	if as.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := as.cache.SetCached(ctx, "admin:stats", string(raw), statsCacheTTL); err != nil {
		as.logger.Warn("Failed to cache stats", zap.Error(err))
	}
}

func (as *AdminService) invalidateStatsCache(ctx context.Context) {
	if as.cache == nil {
		return
	}
	if err := as.cache.InvalidateCached(ctx, "admin:stats"); err != nil {
		as.logger.Warn("Failed to invalidate stats cache", zap.Error(err))
	}
}

// ComputeStats aggregates registration records. Pure; nullable fields are
// tolerated.
func ComputeStats(regs []models.Registration, now time.Time) *Stats {
	stats := &Stats{
		Total:        len(regs),
		ByStatus:     map[string]int{},
		BySize:       map[string]int{},
		ByAge:        map[string]int{},
		ByExperience: map[string]int{},
		ByPackage:    map[string]int{},
	}

	for _, reg := range regs {
		if reg.Status != "" {
			stats.ByStatus[reg.Status]++
		}
		if reg.Package != "" {
			stats.ByPackage[reg.Package]++
		}
		if reg.Size != "" {
			stats.BySize[reg.Size]++
		}
		if reg.Experience != "" {
			stats.ByExperience[reg.Experience]++
		}
		if reg.BirthDate != nil {
			stats.ByAge[AgeBucket(*reg.BirthDate, now)]++
		}
		if strings.TrimSpace(reg.AllergyNotes) != "" {
			stats.WithAllergies++
		}
		if strings.TrimSpace(reg.MedicalNotes) != "" {
			stats.WithMedicalNotes++
		}

		if reg.Status == models.StatusConfirmed ||
			reg.PaymentStatus == models.PaymentStatusPaid ||
			reg.PaymentStatus == models.PaymentStatusPartial {
			stats.Revenue += reg.AmountPaid
		}

		// A cancelled registration's pending payment is not actionable.
		if reg.PaymentStatus == models.PaymentStatusPending && reg.Status != models.StatusCancelled {
			stats.PendingPayments++
		}
	}

	stats.Recent = recentRegistrations(regs, recentLimit)
	return stats
}

// recentRegistrations returns the newest n records. Records without a
// creation timestamp sort last; ties keep input order.
func recentRegistrations(regs []models.Registration, n int) []models.Registration {
	sorted := make([]models.Registration, len(regs))
	copy(sorted, regs)

	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := sorted[i].CreatedAt, sorted[j].CreatedAt
		if ci == nil {
			return false
		}
		if cj == nil {
			return true
		}
		return ci.After(*cj)
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// AgeBucket derives the display bucket from a birth date. Floor age: the
// naive year difference is decremented when the birthday has not yet
// occurred this year.
func AgeBucket(birth, now time.Time) string {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}

	switch {
	case age < 6:
		return "under-6"
	case age <= 8:
		return "6-8"
	case age <= 11:
		return "9-11"
	case age <= 14:
		return "12-14"
	default:
		return "15-plus"
	}
}
