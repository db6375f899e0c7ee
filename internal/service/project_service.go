package service

import (
	"context"
	"errors"
	"fmt"

	"survey-app/internal/repository"

	"github.com/rs/zerolog/log"
)

// ProjectRegistry interface for dependency injection
type ProjectRegistry interface {
	List(ctx context.Context) ([]string, error)
	Create(ctx context.Context, name string) (string, error)
}

// ProjectList is the registry content with the active project marked.
type ProjectList struct {
	Current  string   `json:"current"`
	Projects []string `json:"projects"`
}

// ProjectService lists, creates and switches projects
type ProjectService struct {
	session  SurveySession
	registry ProjectRegistry
}

// NewProjectService creates a new project service
func NewProjectService(sess SurveySession, registry ProjectRegistry) *ProjectService {
	return &ProjectService{session: sess, registry: registry}
}

// List returns all projects and the active one.
func (s *ProjectService) List(ctx context.Context) (ProjectList, error) {
	names, err := s.registry.List(ctx)
	if err != nil {
		return ProjectList{}, fmt.Errorf("service: failed to list projects: %w", err)
	}
	return ProjectList{Current: s.session.Project(), Projects: names}, nil
}

// Create makes a new empty project and switches the session to it.
func (s *ProjectService) Create(ctx context.Context, name string) (string, error) {
	created, err := s.registry.Create(ctx, name)
	if err != nil {
		return "", fmt.Errorf("service: failed to create project: %w", err)
	}
	if _, err := s.session.SwitchProject(ctx, created); err != nil {
		return "", fmt.Errorf("service: failed to switch to new project: %w", err)
	}
	log.Info().Str("project", created).Msg("project created")
	return created, nil
}

// Select switches the session to name, or to the first project if name is unknown.
// A project with a corrupt partition is still selected so it can be replaced.
func (s *ProjectService) Select(ctx context.Context, name string) (string, error) {
	selected, err := s.session.SwitchProject(ctx, name)
	if errors.Is(err, repository.ErrCorruptData) {
		log.Warn().Err(err).Str("project", selected).Msg("selected project has corrupt records")
		err = nil
	}
	if err != nil {
		return "", fmt.Errorf("service: failed to select project: %w", err)
	}
	if selected != name {
		log.Warn().Str("requested", name).Str("selected", selected).Msg("unknown project, fell back")
	}
	return selected, nil
}
