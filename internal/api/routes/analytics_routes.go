package routes

import (
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/handlers"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// AnalyticsRoutes handles the setup of analytics routes
type AnalyticsRoutes struct {
	handler   *handlers.AnalyticsHandler
	jwtSecret string
}

// NewAnalyticsRoutes creates a new AnalyticsRoutes instance
func NewAnalyticsRoutes(handler *handlers.AnalyticsHandler, jwtSecret string) *AnalyticsRoutes {
	return &AnalyticsRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all analytics routes
func (r *AnalyticsRoutes) RegisterRoutes(router *gin.Engine) {
	analytics := router.Group("/api/analytics")
	analytics.Use(middleware.NewAuthMiddleware(r.jwtSecret))

	analytics.GET("/summary", r.handler.GetSummary)
	analytics.GET("/completion-rate", r.handler.GetCompletionRate)
	analytics.GET("/average-minutes", r.handler.GetAverageMinutes)
}
