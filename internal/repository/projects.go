package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"

	"survey-app/internal/models"
)

// ProjectRegistry discovers partitions of a CSVStore and tracks which one is
// active for the session.
type ProjectRegistry struct {
	store          *CSVStore
	defaultProject string

	mu      sync.RWMutex
	current string
}

// NewProjectRegistry creates a registry over store. defaultProject is reported
// when no partition exists yet.
func NewProjectRegistry(store *CSVStore, defaultProject string) *ProjectRegistry {
	return &ProjectRegistry{
		store:          store,
		defaultProject: defaultProject,
		current:        defaultProject,
	}
}

// List returns all project names in lexical order. It never returns an empty list.
func (r *ProjectRegistry) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(r.store.Dir(), partitionPrefix+"*"+partitionExt))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan projects: %w", err)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		name := strings.TrimSuffix(strings.TrimPrefix(base, partitionPrefix), partitionExt)
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return []string{r.defaultProject}, nil
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether a partition file for name is present.
func (r *ProjectRegistry) Exists(name string) bool {
	_, err := os.Stat(r.store.Path(name))
	return err == nil
}

// Create materialises an empty partition for name and makes it current.
func (r *ProjectRegistry) Create(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyProjectName
	}
	if err := ValidateProjectName(name); err != nil {
		return "", err
	}
	if r.Exists(name) {
		return "", fmt.Errorf("%w: %s", ErrDuplicateProject, name)
	}

	if err := r.store.Overwrite(ctx, name, []models.Record{}); err != nil {
		return "", err
	}

	r.mu.Lock()
	r.current = name
	r.mu.Unlock()
	return name, nil
}

// Current returns the active project.
func (r *ProjectRegistry) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Select makes name the active project. An unknown name selects the first
// available project instead. The name actually selected is returned.
func (r *ProjectRegistry) Select(ctx context.Context, name string) (string, error) {
	names, err := r.List(ctx)
	if err != nil {
		return "", err
	}

	selected := names[0]
	for _, n := range names {
		if n == name {
			selected = n
			break
		}
	}

	r.mu.Lock()
	r.current = selected
	r.mu.Unlock()
	return selected, nil
}

// ValidateProjectName rejects names that cannot be used as part of a file name.
func ValidateProjectName(name string) error {
	if name == "" {
		return ErrEmptyProjectName
	}
	if strings.HasPrefix(name, ".") || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidProjectName, name)
	}
	for _, c := range name {
		if unicode.IsControl(c) || strings.ContainsRune(`/\:*?"<>|`, c) {
			return fmt.Errorf("%w: %q", ErrInvalidProjectName, name)
		}
	}
	return nil
}
