package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialbook/dao"
	"socialbook/internal/gallery"
	"socialbook/model"
)

// GalleryService manages a user's bounded, insertion-ordered photo
// collection. Every operation migrates the legacy single-slot avatar first,
// so callers never observe the pre-gallery representation.
type GalleryService struct {
	photos PhotoStore
}

func NewGalleryService(photos PhotoStore) *GalleryService {
	return &GalleryService{photos: photos}
}

// PhotoView is the renderable projection of one gallery element. Index 0 is
// the primary photo.
type PhotoView struct {
	Index       int       `json:"index"`
	ContentType string    `json:"content_type"`
	DataURL     string    `json:"data_url"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// List returns the gallery projection in insertion order.
func (s *GalleryService) List(userID uint64) ([]PhotoView, error) {
	photos, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	views := make([]PhotoView, 0, len(photos))
	for i, p := range photos {
		views = append(views, PhotoView{
			Index:       i,
			ContentType: p.ContentType,
			DataURL:     DataURL(p.ContentType, p.Data),
			UploadedAt:  p.UploadedAt,
		})
	}
	return views, nil
}

// Add normalizes the upload and appends it. The non-image check runs before
// any processing; the photo is only written after re-encoding succeeded, so
// an aborted request leaves the stored collection untouched.
func (s *GalleryService) Add(ctx context.Context, userID uint64, data []byte, declaredMIME string) error {
	if !gallery.IsImage(declaredMIME, data) {
		return ErrNotAnImage
	}
	if err := s.photos.MigrateLegacyAvatar(userID); err != nil {
		return fmt.Errorf("migrate legacy avatar: %w", err)
	}
	normalized, err := gallery.Normalize(ctx, data)
	if err != nil {
		return fmt.Errorf("normalize image: %w", err)
	}
	photo := &model.Photo{
		UserID:      userID,
		Data:        normalized,
		ContentType: gallery.ContentType,
		UploadedAt:  time.Now(),
	}
	if err := s.photos.Append(photo); err != nil {
		if errors.Is(err, dao.ErrCapacityReached) {
			return ErrGalleryFull
		}
		return err
	}
	return nil
}

// Remove deletes the element at the zero-based index. Later elements shift
// down by one; an out-of-bounds index changes nothing.
func (s *GalleryService) Remove(userID uint64, index int) error {
	photos, err := s.load(userID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(photos) {
		return ErrInvalidIndex
	}
	return s.photos.Remove(userID, photos[index].ID)
}

// load migrates then re-reads the current collection, so no operation works
// from a stale copy across the add/remove boundary.
func (s *GalleryService) load(userID uint64) ([]model.Photo, error) {
	if err := s.photos.MigrateLegacyAvatar(userID); err != nil {
		return nil, fmt.Errorf("migrate legacy avatar: %w", err)
	}
	return s.photos.ListByUser(userID)
}
