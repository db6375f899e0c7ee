package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"survey-app/internal/models"
	"survey-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestRouter(publish *PublishHandler) (*gin.Engine, *MockProjectService, *MockOverlayService) {
	gin.SetMode(gin.TestMode)
	projects := new(MockProjectService)
	overlay := new(MockOverlayService)
	r := NewRouter(gin.New(), Handlers{
		Records:  NewRecordsHandler(new(MockRecordService)),
		Location: NewLocationHandler(new(MockLocationService)),
		Projects: NewProjectsHandler(projects),
		Transfer: NewTransferHandler(new(MockTransferService)),
		Overlay:  NewOverlayHandler(overlay),
		Publish:  publish,
	})
	return r, projects, overlay
}

func TestRouter_Health(t *testing.T) {
	r, _, _ := newTestRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestRouter_Routes(t *testing.T) {
	r, projects, overlay := newTestRouter(nil)
	projects.On("List", mock.Anything).Return(service.ProjectList{Current: "default", Projects: []string{"default"}}, nil)
	overlay.On("Delete", mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/overlay", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_PublishIsOptional(t *testing.T) {
	r, _, _ := newTestRouter(nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/publish", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	publish := new(MockPublishService)
	publish.On("Nearby", mock.Anything, models.Coordinate{Lat: 35.0, Lon: 139.0}, float64(0), 0).
		Return([]models.NearbyRecord{{Record: testRecord}}, nil)
	r, _, _ = newTestRouter(NewPublishHandler(publish))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/records/nearby?lat=35&lon=139", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	publish.AssertExpectations(t)
}
