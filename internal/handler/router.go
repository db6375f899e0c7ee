package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups everything the router mounts. Publish is optional and only
// routed when a PostGIS database is configured.
type Handlers struct {
	Records  *RecordsHandler
	Location *LocationHandler
	Projects *ProjectsHandler
	Transfer *TransferHandler
	Overlay  *OverlayHandler
	Publish  *PublishHandler
}

// NewRouter wires all routes on r.
func NewRouter(r *gin.Engine, h Handlers) *gin.Engine {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/projects", h.Projects.List)
	r.POST("/projects", h.Projects.Create)
	r.PUT("/projects/current", h.Projects.Select)

	r.GET("/form", h.Records.Prefill)
	r.GET("/records", h.Records.List)
	r.POST("/records", h.Records.Submit)
	r.PUT("/records", h.Records.Replace)

	r.GET("/export", h.Transfer.Export)
	r.POST("/import/preview", h.Transfer.Preview)
	r.POST("/import/merge", h.Transfer.Merge)
	r.POST("/import/replace", h.Transfer.Replace)

	r.GET("/map", h.Location.Map)
	r.POST("/map/events", h.Location.Event)

	r.GET("/overlay", h.Overlay.Get)
	r.POST("/overlay/download", h.Overlay.Download)
	r.DELETE("/overlay", h.Overlay.Delete)

	if h.Publish != nil {
		r.POST("/publish", h.Publish.Publish)
		r.GET("/records/nearby", h.Publish.Nearby)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
