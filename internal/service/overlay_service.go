package service

import (
	"context"
	"errors"
	"fmt"

	"survey-app/internal/geocache"
	"survey-app/internal/models"
)

// ErrNoBounds is returned when a download names no box and the map has not reported one.
var ErrNoBounds = errors.New("service: no bounding box given and no map viewport known")

// OverlayCache interface for dependency injection
type OverlayCache interface {
	Get(ctx context.Context) (*models.FeatureCollection, error)
	Download(ctx context.Context, b models.Bounds) (geocache.DownloadResult, error)
	Delete(ctx context.Context) error
}

// OverlayService manages the road overlay
type OverlayService struct {
	session SurveySession
	cache   OverlayCache
}

// NewOverlayService creates a new overlay service
func NewOverlayService(sess SurveySession, cache OverlayCache) *OverlayService {
	return &OverlayService{session: sess, cache: cache}
}

// Get returns the cached overlay, nil if none was downloaded.
func (s *OverlayService) Get(ctx context.Context) (*models.FeatureCollection, error) {
	fc, err := s.cache.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to read overlay: %w", err)
	}
	return fc, nil
}

// Download fetches roads for b, or for the last reported viewport when b is zero.
// Errors from the cache are returned unwrapped so their message reaches the user verbatim.
func (s *OverlayService) Download(ctx context.Context, b models.Bounds) (geocache.DownloadResult, error) {
	if b.IsZero() {
		b = s.session.State().Viewport
		if b.IsZero() {
			return geocache.DownloadResult{}, ErrNoBounds
		}
	}
	return s.cache.Download(ctx, b)
}

// Delete removes the cached overlay.
func (s *OverlayService) Delete(ctx context.Context) error {
	if err := s.cache.Delete(ctx); err != nil {
		return fmt.Errorf("service: failed to delete overlay: %w", err)
	}
	return nil
}
