package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"survey-app/internal/geocache"
	"survey-app/internal/models"
	"survey-app/internal/service"
	"survey-app/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRecordService is a mock implementation of the RecordService interface
type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) Records(ctx context.Context) ([]models.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Record), args.Error(1)
}

func (m *MockRecordService) Submit(ctx context.Context, form session.Form) (models.Record, error) {
	args := m.Called(ctx, form)
	return args.Get(0).(models.Record), args.Error(1)
}

func (m *MockRecordService) ReplaceRecords(ctx context.Context, records []models.Record) error {
	return m.Called(ctx, records).Error(0)
}

func (m *MockRecordService) Prefill(ctx context.Context) (session.Prefill, error) {
	args := m.Called(ctx)
	return args.Get(0).(session.Prefill), args.Error(1)
}

// MockLocationService is a mock implementation of the LocationService interface
type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) HandleEvent(ctx context.Context, ev session.Event) (service.EventResult, error) {
	args := m.Called(ctx, ev)
	return args.Get(0).(service.EventResult), args.Error(1)
}

func (m *MockLocationService) MapView(ctx context.Context, tiles string) (models.MapView, error) {
	args := m.Called(ctx, tiles)
	return args.Get(0).(models.MapView), args.Error(1)
}

// MockProjectService is a mock implementation of the ProjectService interface
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) List(ctx context.Context) (service.ProjectList, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.ProjectList), args.Error(1)
}

func (m *MockProjectService) Create(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockProjectService) Select(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

// MockTransferService is a mock implementation of the TransferService interface.
// The upload is read in full so tests can match on its content.
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Export(ctx context.Context) (service.Export, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.Export), args.Error(1)
}

func (m *MockTransferService) Preview(ctx context.Context, r io.Reader) (service.ImportPreview, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, string(data))
	return args.Get(0).(service.ImportPreview), args.Error(1)
}

func (m *MockTransferService) Merge(ctx context.Context, r io.Reader) (service.ImportResult, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, string(data))
	return args.Get(0).(service.ImportResult), args.Error(1)
}

func (m *MockTransferService) Replace(ctx context.Context, r io.Reader) (service.ImportResult, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, string(data))
	return args.Get(0).(service.ImportResult), args.Error(1)
}

// MockOverlayService is a mock implementation of the OverlayService interface
type MockOverlayService struct {
	mock.Mock
}

func (m *MockOverlayService) Get(ctx context.Context) (*models.FeatureCollection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeatureCollection), args.Error(1)
}

func (m *MockOverlayService) Download(ctx context.Context, b models.Bounds) (geocache.DownloadResult, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(geocache.DownloadResult), args.Error(1)
}

func (m *MockOverlayService) Delete(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockPublishService is a mock implementation of the PublishService interface
type MockPublishService struct {
	mock.Mock
}

func (m *MockPublishService) Publish(ctx context.Context) (service.PublishResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.PublishResult), args.Error(1)
}

func (m *MockPublishService) Nearby(ctx context.Context, point models.Coordinate, radius float64, limit int) ([]models.NearbyRecord, error) {
	args := m.Called(ctx, point, radius, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NearbyRecord), args.Error(1)
}

func newTestContext(w *httptest.ResponseRecorder) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	return c
}

// decodeBody unmarshals a JSON response into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
