package service

import (
	"context"

	"survey-app/internal/geocache"
	"survey-app/internal/models"
	"survey-app/internal/session"

	"github.com/stretchr/testify/mock"
)

// MockSurveySession is a mock implementation of the SurveySession interface
type MockSurveySession struct {
	mock.Mock
}

func (m *MockSurveySession) Project() string {
	return m.Called().String(0)
}

func (m *MockSurveySession) State() session.State {
	return m.Called().Get(0).(session.State)
}

func (m *MockSurveySession) Dispatch(ctx context.Context, ev session.Event) (session.State, bool, error) {
	args := m.Called(ctx, ev)
	return args.Get(0).(session.State), args.Bool(1), args.Error(2)
}

func (m *MockSurveySession) Render(ctx context.Context, tiles string) (models.MapView, error) {
	args := m.Called(ctx, tiles)
	return args.Get(0).(models.MapView), args.Error(1)
}

func (m *MockSurveySession) Prefill(ctx context.Context) (session.Prefill, error) {
	args := m.Called(ctx)
	return args.Get(0).(session.Prefill), args.Error(1)
}

func (m *MockSurveySession) Submit(ctx context.Context, form session.Form) (models.Record, error) {
	args := m.Called(ctx, form)
	return args.Get(0).(models.Record), args.Error(1)
}

func (m *MockSurveySession) SwitchProject(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

// MockRecordRepository is a mock implementation of the RecordRepository interface
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Load(ctx context.Context, project string) ([]models.Record, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Record), args.Error(1)
}

func (m *MockRecordRepository) Overwrite(ctx context.Context, project string, records []models.Record) error {
	return m.Called(ctx, project, records).Error(0)
}

func (m *MockRecordRepository) Merge(ctx context.Context, project string, records []models.Record) error {
	return m.Called(ctx, project, records).Error(0)
}

// MockOverlayCache is a mock implementation of the OverlayCache interface
type MockOverlayCache struct {
	mock.Mock
}

func (m *MockOverlayCache) Get(ctx context.Context) (*models.FeatureCollection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeatureCollection), args.Error(1)
}

func (m *MockOverlayCache) Download(ctx context.Context, b models.Bounds) (geocache.DownloadResult, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(geocache.DownloadResult), args.Error(1)
}

func (m *MockOverlayCache) Delete(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockProjectRegistry is a mock implementation of the ProjectRegistry interface
type MockProjectRegistry struct {
	mock.Mock
}

func (m *MockProjectRegistry) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProjectRegistry) Create(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

// MockPublicationRepository is a mock implementation of the PublicationRepository interface
type MockPublicationRepository struct {
	mock.Mock
}

func (m *MockPublicationRepository) PublishProject(ctx context.Context, project string, records []models.Record) (int, error) {
	args := m.Called(ctx, project, records)
	return args.Int(0), args.Error(1)
}

func (m *MockPublicationRepository) FindNearestRecords(ctx context.Context, project string, point models.Coordinate, radius float64, limit int) ([]models.NearbyRecord, error) {
	args := m.Called(ctx, project, point, radius, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NearbyRecord), args.Error(1)
}
