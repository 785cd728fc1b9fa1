package routes

import (
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/handlers"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// RoleRoutes handles the setup of role-related routes
type RoleRoutes struct {
	handler   *handlers.RoleHandler
	jwtSecret string
}

// NewRoleRoutes creates a new RoleRoutes instance
func NewRoleRoutes(handler *handlers.RoleHandler, jwtSecret string) *RoleRoutes {
	return &RoleRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all role-related routes
func (r *RoleRoutes) RegisterRoutes(router *gin.Engine) {
	roles := router.Group("/api/roles")
	roles.Use(middleware.NewAuthMiddleware(r.jwtSecret))

	roles.GET("", r.handler.ListRolesByEvent)
	roles.GET("/:id", r.handler.GetRole)
	roles.POST("", r.handler.CreateRole)

	roles.POST("/:id/volunteers", r.handler.AssignVolunteer)
	roles.POST("/:id/confirm", r.handler.ConfirmAssignment)
	roles.POST("/:id/decline", r.handler.DeclineAssignment)
}
