package store

import (
	"context"
	"database/sql"
	"fmt"

	"camp-service/internal/models"
)

// ListGalleryPhotos retrieves gallery photos, optionally filtered by category.
func (s *Store) ListGalleryPhotos(ctx context.Context, category string) ([]models.GalleryPhoto, error) {
	var photos []models.GalleryPhoto
	if category != "" {
		err := s.db.SelectContext(ctx, &photos,
			"SELECT * FROM gallery_photos WHERE category = $1 ORDER BY sort_order, id", category)
		return photos, err
	}
	err := s.db.SelectContext(ctx, &photos,
		"SELECT * FROM gallery_photos ORDER BY sort_order, id")
	return photos, err
}

// UpdateGalleryPhoto updates the admin-editable display fields.
func (s *Store) UpdateGalleryPhoto(ctx context.Context, id int64, featured bool, sortOrder int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE gallery_photos SET featured = $1, sort_order = $2 WHERE id = $3",
		featured, sortOrder, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("gallery photo not found: %d", id)
	}
	return nil
}

// GetGalleryPhotoByID retrieves one photo
func (s *Store) GetGalleryPhotoByID(ctx context.Context, id int64) (*models.GalleryPhoto, error) {
	var photo models.GalleryPhoto
	err := s.db.GetContext(ctx, &photo, "SELECT * FROM gallery_photos WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("gallery photo not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &photo, nil
}
