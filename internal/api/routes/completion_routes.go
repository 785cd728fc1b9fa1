package routes

import (
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/handlers"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// CompletionRoutes handles the setup of completion-related routes
type CompletionRoutes struct {
	handler   *handlers.CompletionHandler
	jwtSecret string
}

// NewCompletionRoutes creates a new CompletionRoutes instance
func NewCompletionRoutes(handler *handlers.CompletionHandler, jwtSecret string) *CompletionRoutes {
	return &CompletionRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all completion-related routes
func (r *CompletionRoutes) RegisterRoutes(router *gin.Engine) {
	metrics := middleware.NewMetricsMiddleware()

	completions := router.Group("/api/completions")
	completions.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	completions.Use(metrics.CollectMetrics())

	completions.GET("", r.handler.ListCompletions)
	completions.GET("/:id", r.handler.GetCompletion)

	// Volunteer moves
	completions.POST("/:id/start", r.handler.StartCompletion)
	completions.POST("/:id/submit", r.handler.SubmitCompletion)
	completions.POST("/:id/resubmit", r.handler.ResubmitCompletion)

	// Reviewer moves
	completions.POST("/:id/review", r.handler.StartReview)
	completions.POST("/:id/approve", r.handler.ApproveCompletion)
	completions.POST("/:id/reject", r.handler.RejectCompletion)
	completions.POST("/:id/revision", r.handler.RequestRevision)
	completions.POST("/:id/verify", middleware.RequireRoles("verifier"), r.handler.VerifyCompletion)

	completions.POST("/:id/cancel", r.handler.CancelCompletion)
}
