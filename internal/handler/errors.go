package handler

import (
	"errors"
	"net/http"

	"survey-app/internal/geocache"
	"survey-app/internal/models"
	"survey-app/internal/repository"
	"survey-app/internal/service"
	"survey-app/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// writeError maps a service error to a status code and a JSON body. Errors
// the user can act on carry their message; anything else is logged and
// reported as an internal error.
func writeError(c *gin.Context, err error) {
	var schema *repository.SchemaMismatchError
	var corrupt *repository.CorruptDataError
	var failure *geocache.QueryFailure
	var tooLarge *geocache.QueryTooLargeError

	switch {
	case errors.As(err, &corrupt):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": corrupt.Error()})
	case errors.As(err, &schema):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    schema.Error(),
			"missing":  schema.Missing,
			"required": models.RequiredColumns,
		})
	case errors.Is(err, service.ErrImportRejected),
		errors.Is(err, service.ErrInvalidRecords):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrSpeciesRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "species name is required"})
	case errors.Is(err, repository.ErrEmptyProjectName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "project name cannot be empty"})
	case errors.Is(err, repository.ErrInvalidProjectName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "project name is not filesystem safe"})
	case errors.Is(err, repository.ErrDuplicateProject):
		c.JSON(http.StatusConflict, gin.H{"error": "project already exists"})
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": tooLarge.Error()})
	case errors.Is(err, geocache.ErrInvalidBounds), errors.Is(err, service.ErrNoBounds):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &failure):
		c.JSON(http.StatusBadGateway, gin.H{"error": failure.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
