// Package api exposes the proposal engine over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/pvgo/internal/api/handlers"
	"github.com/rgehrsitz/pvgo/internal/api/middleware"
	"github.com/rgehrsitz/pvgo/internal/api/models"
	"github.com/rgehrsitz/pvgo/internal/calculation"
	"github.com/rgehrsitz/pvgo/internal/catalog"
)

// Options configures the router
type Options struct {
	AllowedOrigins []string
	Logger         calculation.Logger
}

// NewRouter wires the handlers and middleware around engine and cat
func NewRouter(engine *calculation.ProposalEngine, cat catalog.Catalog, opts Options) *gin.Engine {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(opts.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(opts.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NOT_FOUND",
				Message: "no route for " + c.Request.Method + " " + c.Request.URL.Path,
			},
		})
	})

	proposalHandler := handlers.NewProposalHandler(engine)
	catalogHandler := handlers.NewCatalogHandler(engine, cat)
	breakEvenHandler := handlers.NewBreakEvenHandler(engine)

	api := router.Group("/api/v1")
	{
		api.POST("/proposals", proposalHandler.CreateProposal)
		api.POST("/decompose", proposalHandler.Decompose)
		api.GET("/irradiance/:location", proposalHandler.GetIrradiance)

		api.GET("/kits", catalogHandler.ListKits)
		api.POST("/compare", catalogHandler.CompareKits)

		api.POST("/break-even", breakEvenHandler.Solve)
	}

	return router
}
