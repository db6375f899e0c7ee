package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"survey-app/internal/config"
	"survey-app/internal/geocache"
	"survey-app/internal/logging"
	"survey-app/internal/overpass"
	"survey-app/internal/repository"
	"survey-app/internal/session"

	"github.com/spf13/cobra"
)

// env is the set of components a command works with.
type env struct {
	cfg      config.Config
	store    *repository.CSVStore
	registry *repository.ProjectRegistry
	cache    *geocache.Cache
	sess     *session.Session
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	dir, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	store, err := repository.NewCSVStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	defaults := cfg.Defaults()
	registry := repository.NewProjectRegistry(store, defaults.Project)

	overlayPath := cfg.Overlay.File
	if !filepath.IsAbs(overlayPath) {
		overlayPath = filepath.Join(cfg.DataDir, overlayPath)
	}
	cache := geocache.New(overlayPath,
		overpass.NewClient(cfg.Overlay.Endpoint, cfg.Overlay.RequestTimeout), cfg.Overlay.MaxSpan)

	return &env{
		cfg:      cfg,
		store:    store,
		registry: registry,
		cache:    cache,
		sess:     session.New(store, registry, cache, defaults),
	}, nil
}

// useProject switches the session to an existing project; the registry's
// fallback to the first project is not wanted on the command line. A corrupt
// project is still used so that an import can replace it.
func (e *env) useProject(ctx context.Context, name string) (string, error) {
	if name == "" {
		name = e.cfg.Session.DefaultProject
	}
	if !e.registry.Exists(name) {
		return "", fmt.Errorf("project %q does not exist\nHint: surveyctl projects create %s", name, name)
	}
	selected, err := e.sess.SwitchProject(ctx, name)
	if errors.Is(err, repository.ErrCorruptData) {
		fmt.Printf("Warning: %v\n", err)
		return selected, nil
	}
	return selected, err
}
