package routes

import (
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/handlers"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// TaskRoutes handles the setup of task-related routes
type TaskRoutes struct {
	handler   *handlers.TaskHandler
	jwtSecret string
}

// NewTaskRoutes creates a new TaskRoutes instance
func NewTaskRoutes(handler *handlers.TaskHandler, jwtSecret string) *TaskRoutes {
	return &TaskRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all task-related routes
func (r *TaskRoutes) RegisterRoutes(router *gin.Engine) {
	metrics := middleware.NewMetricsMiddleware()

	tasks := router.Group("/api/tasks")
	tasks.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	tasks.Use(metrics.CollectMetrics())

	tasks.GET("", r.handler.ListTasks)
	tasks.GET("/:id", r.handler.GetTask)

	tasks.POST("", r.handler.CreateTask)
	tasks.PUT("/:id", r.handler.UpdateTask)
	tasks.DELETE("/:id", r.handler.DeleteTask)

	tasks.PATCH("/:id/status", r.handler.UpdateTaskStatus)

	// Prerequisite graph
	tasks.GET("/:id/prerequisites", r.handler.ListPrerequisites)
	tasks.GET("/:id/prerequisites/check", r.handler.CheckPrerequisites)
	tasks.POST("/:id/prerequisites", r.handler.AddPrerequisite)
	tasks.DELETE("/:id/prerequisites/:prerequisite_id", r.handler.RemovePrerequisite)
}
