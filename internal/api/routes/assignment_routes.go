package routes

import (
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/handlers"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// AssignmentRoutes handles the setup of assignment-related routes
type AssignmentRoutes struct {
	handler   *handlers.AssignmentHandler
	jwtSecret string
}

// NewAssignmentRoutes creates a new AssignmentRoutes instance
func NewAssignmentRoutes(handler *handlers.AssignmentHandler, jwtSecret string) *AssignmentRoutes {
	return &AssignmentRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all assignment-related routes
func (r *AssignmentRoutes) RegisterRoutes(router *gin.Engine) {
	metrics := middleware.NewMetricsMiddleware()

	assignments := router.Group("/api/assignments")
	assignments.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	assignments.Use(metrics.CollectMetrics())

	assignments.POST("", r.handler.AssignTask)
	assignments.POST("/bulk", r.handler.BulkAssign)
	assignments.POST("/auto/:id", r.handler.AutoAssign)
}
