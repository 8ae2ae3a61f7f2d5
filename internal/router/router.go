package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/nutriscan/backend/internal/api"
	"github.com/pageza/nutriscan/backend/internal/metrics"
	"github.com/pageza/nutriscan/backend/internal/middleware"
)

// Options carries the cross-cutting settings of the router
type Options struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
	Logger         *zap.Logger
	Metrics        *metrics.Collector
}

// SetupRouter configures the application routes
func SetupRouter(
	recipeHandler *api.RecipeHandler,
	smsHandler *api.SMSHandler,
	healthHandler *api.HealthHandler,
	opts Options,
) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(logger, opts.Metrics),
		middleware.Recovery(logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	router.GET("/", healthHandler.Root)
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	apiGroup := router.Group("/api")
	apiGroup.Use(middleware.BodyLimit(opts.MaxBodyBytes))
	recipeHandler.RegisterRoutes(apiGroup)
	smsHandler.RegisterRoutes(apiGroup)

	return router
}
