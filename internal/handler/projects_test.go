package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"survey-app/internal/repository"
	"survey-app/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProjectsHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		input          string
		mockName       string
		mockError      error
		expectedStatus int
		expectedBody   map[string]interface{}
	}{
		{
			name:           "created",
			body:           `{"name":"moths"}`,
			input:          "moths",
			mockName:       "moths",
			expectedStatus: http.StatusCreated,
			expectedBody:   map[string]interface{}{"current": "moths"},
		},
		{
			name:           "empty name",
			body:           `{"name":""}`,
			input:          "",
			mockError:      fmt.Errorf("service: failed to create project: %w", repository.ErrEmptyProjectName),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "project name cannot be empty"},
		},
		{
			name:           "duplicate",
			body:           `{"name":"moths"}`,
			input:          "moths",
			mockError:      fmt.Errorf("service: failed to create project: %w: moths", repository.ErrDuplicateProject),
			expectedStatus: http.StatusConflict,
			expectedBody:   map[string]interface{}{"error": "project already exists"},
		},
		{
			name:           "unsafe name",
			body:           `{"name":"../etc"}`,
			input:          "../etc",
			mockError:      repository.ErrInvalidProjectName,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "project name is not filesystem safe"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockProjectService)
			mockSvc.On("Create", mock.Anything, tt.input).Return(tt.mockName, tt.mockError)

			w := httptest.NewRecorder()
			c := newTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			NewProjectsHandler(mockSvc).Create(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, decodeBody(t, w))
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestProjectsHandler_ListAndSelect(t *testing.T) {
	mockSvc := new(MockProjectService)
	mockSvc.On("List", mock.Anything).Return(service.ProjectList{Current: "moths", Projects: []string{"beetles", "moths"}}, nil)
	mockSvc.On("Select", mock.Anything, "ghost").Return("beetles", nil)
	handler := NewProjectsHandler(mockSvc)

	w := httptest.NewRecorder()
	c := newTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/projects", nil)
	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{
		"current":  "moths",
		"projects": []interface{}{"beetles", "moths"},
	}, decodeBody(t, w))

	w = httptest.NewRecorder()
	c = newTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/projects/current", strings.NewReader(`{"name":"ghost"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Select(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"current": "beetles"}, decodeBody(t, w))
}

func TestProjectsHandler_InvalidBody(t *testing.T) {
	mockSvc := new(MockProjectService)

	w := httptest.NewRecorder()
	c := newTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`not json`))
	c.Request.Header.Set("Content-Type", "application/json")

	NewProjectsHandler(mockSvc).Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decodeBody(t, w)["error"])
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
