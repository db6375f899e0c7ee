package service

import (
	"context"
	"fmt"

	"survey-app/internal/models"

	"github.com/rs/zerolog/log"
)

const (
	defaultNearbyRadius = 500.0
	maxNearbyRadius     = 50000.0
	defaultNearbyLimit  = 10
)

// PublicationRepository interface for dependency injection
type PublicationRepository interface {
	PublishProject(ctx context.Context, project string, records []models.Record) (int, error)
	FindNearestRecords(ctx context.Context, project string, point models.Coordinate, radius float64, limit int) ([]models.NearbyRecord, error)
}

// PublishResult reports a publication run.
type PublishResult struct {
	Project   string `json:"project"`
	Published int    `json:"published"`
	Skipped   int    `json:"skipped"`
}

// PublishService copies the active project into PostGIS and answers spatial queries on it
type PublishService struct {
	session SurveySession
	records RecordRepository
	repo    PublicationRepository
}

// NewPublishService creates a new publish service
func NewPublishService(sess SurveySession, records RecordRepository, repo PublicationRepository) *PublishService {
	return &PublishService{session: sess, records: records, repo: repo}
}

// Publish replaces the published copy of the active project.
func (s *PublishService) Publish(ctx context.Context) (PublishResult, error) {
	project := s.session.Project()
	records, err := s.records.Load(ctx, project)
	if err != nil {
		return PublishResult{}, fmt.Errorf("service: failed to load %s: %w", project, err)
	}

	n, err := s.repo.PublishProject(ctx, project, records)
	if err != nil {
		return PublishResult{}, fmt.Errorf("service: failed to publish %s: %w", project, err)
	}

	log.Info().Str("project", project).Int("published", n).Msg("project published")
	return PublishResult{Project: project, Published: n, Skipped: len(records) - n}, nil
}

// Nearby finds published records of the active project close to point.
// A non-positive radius or limit selects the defaults.
func (s *PublishService) Nearby(ctx context.Context, point models.Coordinate, radius float64, limit int) ([]models.NearbyRecord, error) {
	if point.Lat < -90 || point.Lat > 90 {
		return nil, fmt.Errorf("service: invalid latitude: %f", point.Lat)
	}
	if point.Lon < -180 || point.Lon > 180 {
		return nil, fmt.Errorf("service: invalid longitude: %f", point.Lon)
	}
	if radius <= 0 {
		radius = defaultNearbyRadius
	}
	if radius > maxNearbyRadius {
		radius = maxNearbyRadius
	}
	if limit <= 0 {
		limit = defaultNearbyLimit
	}

	nearby, err := s.repo.FindNearestRecords(ctx, s.session.Project(), point, radius, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to find nearby records: %w", err)
	}
	return nearby, nil
}
