package main

import (
	"context"
	"path/filepath"

	_ "survey-app/docs"
	"survey-app/internal/config"
	"survey-app/internal/geocache"
	"survey-app/internal/handler"
	"survey-app/internal/logging"
	"survey-app/internal/overpass"
	"survey-app/internal/repository"
	"survey-app/internal/service"
	"survey-app/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logging.Setup(config.Log.Level, config.Log.Format)
	defaults := config.Defaults()

	store, err := repository.NewCSVStore(config.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open data dir")
	}
	registry := repository.NewProjectRegistry(store, defaults.Project)

	overlayPath := config.Overlay.File
	if !filepath.IsAbs(overlayPath) {
		overlayPath = filepath.Join(config.DataDir, overlayPath)
	}
	client := overpass.NewClient(config.Overlay.Endpoint, config.Overlay.RequestTimeout)
	cache := geocache.New(overlayPath, client, config.Overlay.MaxSpan)

	// Initialize layers
	sess := session.New(store, registry, cache, defaults)
	if err := sess.Open(context.Background()); err != nil {
		log.Warn().Err(err).Str("project", sess.Project()).Msg("survey session opened without records")
	}

	surveyService := service.NewSurveyService(sess, store)
	transferService := service.NewTransferService(sess, store)
	projectService := service.NewProjectService(sess, registry)
	overlayService := service.NewOverlayService(sess, cache)

	handlers := handler.Handlers{
		Records:  handler.NewRecordsHandler(surveyService),
		Location: handler.NewLocationHandler(surveyService),
		Projects: handler.NewProjectsHandler(projectService),
		Transfer: handler.NewTransferHandler(transferService),
		Overlay:  handler.NewOverlayHandler(overlayService),
	}

	// PostGIS publication is optional
	if config.DBSource != "" {
		conn, err := pgxpool.New(context.Background(), config.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()

		repo := repository.NewPostgresRepository(conn)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("cannot prepare publication schema")
		}
		handlers.Publish = handler.NewPublishHandler(service.NewPublishService(sess, store, repo))
	}

	r := handler.NewRouter(gin.Default(), handlers)

	log.Info().Str("address", config.ServerAddress).Str("data_dir", config.DataDir).
		Str("project", sess.Project()).Msg("survey api listening")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
