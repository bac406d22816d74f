package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clauselens-backend/internal/services/health"
	"clauselens-backend/internal/shared/config"
	"clauselens-backend/internal/shared/metrics"
	"clauselens-backend/internal/shared/server/middleware"
	"clauselens-backend/internal/shared/server/respond"
)

// RouteRegistrar is implemented by each feature handler.
type RouteRegistrar interface {
	RegisterRoutes(rg gin.IRoutes)
}

// RouterDeps contains handlers for routing.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	AnalysisHandler RouteRegistrar
	QuestionHandler RouteRegistrar
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(deps.Config.LLMProvider)
	}
	r.GET("/health", func(c *gin.Context) {
		respond.OK(c, healthSvc.Status())
	})
	r.GET("/metrics", metrics.Handler())

	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(r)
	}
	if deps.QuestionHandler != nil {
		deps.QuestionHandler.RegisterRoutes(r)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "Not found", nil)
	})
	r.NoMethod(func(c *gin.Context) {
		respond.Error(c, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
