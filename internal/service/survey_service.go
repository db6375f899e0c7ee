package service

import (
	"context"
	"errors"
	"fmt"

	"survey-app/internal/metrics"
	"survey-app/internal/models"
	"survey-app/internal/repository"
	"survey-app/internal/session"

	"github.com/rs/zerolog/log"
)

// ErrInvalidRecords rejects an edited record list that cannot be stored.
var ErrInvalidRecords = errors.New("service: invalid records")

// SurveySession is the session behaviour the services rely on.
type SurveySession interface {
	Project() string
	State() session.State
	Dispatch(ctx context.Context, ev session.Event) (session.State, bool, error)
	Render(ctx context.Context, tiles string) (models.MapView, error)
	Prefill(ctx context.Context) (session.Prefill, error)
	Submit(ctx context.Context, form session.Form) (models.Record, error)
	SwitchProject(ctx context.Context, name string) (string, error)
}

// RecordRepository interface for dependency injection
type RecordRepository interface {
	Load(ctx context.Context, project string) ([]models.Record, error)
	Overwrite(ctx context.Context, project string, records []models.Record) error
	Merge(ctx context.Context, project string, records []models.Record) error
}

// EventResult is the answer to one location event.
type EventResult struct {
	State  session.State `json:"state"`
	Redraw bool          `json:"redraw"`
}

// SurveyService contains the record and location logic of the active project
type SurveyService struct {
	session SurveySession
	repo    RecordRepository
}

// NewSurveyService creates a new survey service
func NewSurveyService(sess SurveySession, repo RecordRepository) *SurveyService {
	return &SurveyService{session: sess, repo: repo}
}

// Records returns the active project's records in insertion order.
func (s *SurveyService) Records(ctx context.Context) ([]models.Record, error) {
	project := s.session.Project()
	records, err := s.repo.Load(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load records of %s: %w", project, err)
	}
	return records, nil
}

// Submit stores a new record at the canonical coordinate.
func (s *SurveyService) Submit(ctx context.Context, form session.Form) (models.Record, error) {
	record, err := s.session.Submit(ctx, form)
	if err != nil {
		return models.Record{}, fmt.Errorf("service: failed to submit record: %w", err)
	}
	return record, nil
}

// ReplaceRecords overwrites the active project with edited records.
func (s *SurveyService) ReplaceRecords(ctx context.Context, records []models.Record) error {
	if err := repository.ValidateBatch(records); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecords, err)
	}

	project := s.session.Project()
	if err := s.repo.Overwrite(ctx, project, records); err != nil {
		return fmt.Errorf("service: failed to overwrite %s: %w", project, err)
	}

	metrics.RecordsWritten.WithLabelValues("overwrite").Add(float64(len(records)))
	log.Info().Str("project", project).Int("count", len(records)).Msg("records overwritten")
	return nil
}

// HandleEvent applies one map or manual input event.
func (s *SurveyService) HandleEvent(ctx context.Context, ev session.Event) (EventResult, error) {
	state, redraw, err := s.session.Dispatch(ctx, ev)
	if err != nil {
		return EventResult{}, fmt.Errorf("service: failed to apply %s event: %w", ev.Kind(), err)
	}
	return EventResult{State: state, Redraw: redraw}, nil
}

// MapView renders the current map state.
func (s *SurveyService) MapView(ctx context.Context, tiles string) (models.MapView, error) {
	view, err := s.session.Render(ctx, tiles)
	if err != nil {
		return models.MapView{}, fmt.Errorf("service: failed to render map: %w", err)
	}
	return view, nil
}

// Prefill returns the form's starting values.
func (s *SurveyService) Prefill(ctx context.Context) (session.Prefill, error) {
	p, err := s.session.Prefill(ctx)
	if err != nil {
		return session.Prefill{}, fmt.Errorf("service: failed to prefill form: %w", err)
	}
	return p, nil
}
