package service

import (
	"context"
	"fmt"

	"camp-service/internal/models"
	"camp-service/internal/util"

	"go.uber.org/zap"
)

// GalleryService serves marketing gallery photos with the same
// fixture-fallback behavior as the other read paths.
type GalleryService struct {
	store  GalleryStore // nil when the store is unconfigured
	logger *zap.Logger
}

// NewGalleryService creates a new gallery service.
func NewGalleryService(store GalleryStore) *GalleryService {
	return &GalleryService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// List returns gallery photos with a provenance marker.
func (gs *GalleryService) List(ctx context.Context, category string) ([]models.GalleryPhoto, string, error) {
	if gs.store == nil {
		util.FallbackReadsTotal.WithLabelValues("gallery").Inc()
		return filterFixturePhotos(category), SourceFallback, nil
	}

	photos, err := gs.store.ListGalleryPhotos(ctx, category)
	if err != nil {
		gs.logger.Error("Failed to list gallery photos, serving fixtures", zap.Error(err))
		util.FallbackReadsTotal.WithLabelValues("gallery").Inc()
		return filterFixturePhotos(category), SourceFallback, nil
	}

	return photos, SourceLive, nil
}

// Update applies admin edits to a photo's display fields. Simulated in
// fallback mode.
func (gs *GalleryService) Update(ctx context.Context, id int64, featured bool, sortOrder int) (simulated bool, err error) {
	if gs.store == nil {
		gs.logger.Warn("Store not configured, simulating gallery update", zap.Int64("id", id))
		return true, nil
	}

	if err := gs.store.UpdateGalleryPhoto(ctx, id, featured, sortOrder); err != nil {
		return false, fmt.Errorf("failed to update gallery photo: %w", err)
	}
	return false, nil
}

func filterFixturePhotos(category string) []models.GalleryPhoto {
	photos := FixtureGalleryPhotos()
	if category == "" {
		return photos
	}
	out := photos[:0]
	for _, p := range photos {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
