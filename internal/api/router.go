package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"bess-degradation/internal/api/handlers"
	"bess-degradation/internal/api/middleware"
	"bess-degradation/internal/api/models"
	"bess-degradation/internal/logger"
	"bess-degradation/internal/metrics"
	"bess-degradation/internal/presets"
	"bess-degradation/internal/store"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Store     store.Store
	Catalogue *presets.Catalogue
	Metrics   *metrics.PromRecorder
	Log       logger.Logger
	// StaticDir is served for non-API routes when it exists.
	StaticDir      string
	AllowedOrigins []string
}

// NewRouter wires middleware and routes.
func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = logger.NopLogger{}
	}
	var rec metrics.Recorder = metrics.NopRecorder{}
	if d.Metrics != nil {
		rec = d.Metrics
	}

	router := gin.New()
	router.Use(middleware.CORS(d.AllowedOrigins...))
	router.Use(middleware.Logger(d.Log, rec))
	router.Use(middleware.ErrorHandler(d.Log))

	simHandler := handlers.NewSimulationHandler(d.Store, d.Catalogue, rec, d.Log)
	presetHandler := handlers.NewPresetHandler(d.Catalogue)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simHandler.Simulate)
		api.POST("/simulate/compare", simHandler.Compare)

		api.GET("/simulations", simHandler.ListSimulations)
		api.GET("/simulations/:id", simHandler.GetSimulation)
		api.GET("/simulations/:id/csv", simHandler.GetCSV)
		api.GET("/simulations/:id/chart.png", simHandler.GetChart)

		api.GET("/presets", presetHandler.ListPresets)
		api.GET("/presets/:id", presetHandler.GetPreset)
	}

	serveStatic(router, d.StaticDir, d.Log)
	return router
}

// serveStatic serves a built SPA from dir; index.html answers every
// non-API route.
func serveStatic(router *gin.Engine, dir string, log logger.Logger) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
		})
	}
	if dir == "" {
		router.NoRoute(notFound)
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Infof("Static directory %s not found, skipping static file serving", dir)
		router.NoRoute(notFound)
		return
	}

	router.Static("/assets", filepath.Join(dir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	})
	log.Infof("Serving static files from %s", dir)
}
