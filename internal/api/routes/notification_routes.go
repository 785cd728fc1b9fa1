package routes

import (
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/handlers"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// NotificationRoutes handles the setup of notification routes
type NotificationRoutes struct {
	handler   *handlers.NotificationHandler
	jwtSecret string
}

// NewNotificationRoutes creates a new NotificationRoutes instance
func NewNotificationRoutes(handler *handlers.NotificationHandler, jwtSecret string) *NotificationRoutes {
	return &NotificationRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all notification routes
func (r *NotificationRoutes) RegisterRoutes(router *gin.Engine) {
	notifications := router.Group("/api/notifications")
	notifications.Use(middleware.NewAuthMiddleware(r.jwtSecret))

	notifications.GET("", r.handler.ListMyNotifications)
	notifications.PATCH("/:id/read", r.handler.MarkRead)
}
