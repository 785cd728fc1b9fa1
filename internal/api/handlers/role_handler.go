package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/dto"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/middleware"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/roles"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RoleHandler handles HTTP requests for role operations
type RoleHandler struct {
	service roles.Service
}

// NewRoleHandler creates a new RoleHandler instance
func NewRoleHandler(service roles.Service) *RoleHandler {
	return &RoleHandler{service: service}
}

// CreateRole creates a new role
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	role, err := h.service.CreateRole(c.Request.Context(), roles.CreateRoleInput{
		Name:        req.Name,
		Description: req.Description,
		EventID:     req.EventID,
		VenueID:     req.VenueID,
		Capacity:    req.Capacity,
	}, actorID)
	if err != nil {
		c.JSON(roleErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": RoleToResponse(role)})
}

// GetRole returns a single role by ID
func (h *RoleHandler) GetRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role ID"})
		return
	}

	role, err := h.service.GetRole(c.Request.Context(), id)
	if err != nil {
		c.JSON(roleErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": RoleToResponse(role)})
}

// ListRolesByEvent returns the roles of one event
func (h *RoleHandler) ListRolesByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Query("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event_id"})
		return
	}

	result, err := h.service.ListRolesByEvent(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.RoleResponse, 0, len(result))
	for i := range result {
		responses = append(responses, RoleToResponse(&result[i]))
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// AssignVolunteer adds a volunteer to a role as pending
func (h *RoleHandler) AssignVolunteer(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role ID"})
		return
	}

	var req dto.AssignVolunteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	a, err := h.service.AssignVolunteer(c.Request.Context(), roleID, req.VolunteerID, actorID)
	if err != nil {
		c.JSON(roleErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": RoleAssignmentToResponse(a)})
}

// ConfirmAssignment confirms the caller's membership in a role
func (h *RoleHandler) ConfirmAssignment(c *gin.Context) {
	h.resolve(c, h.service.ConfirmAssignment)
}

// DeclineAssignment declines the caller's membership in a role
func (h *RoleHandler) DeclineAssignment(c *gin.Context) {
	h.resolve(c, h.service.DeclineAssignment)
}

func (h *RoleHandler) resolve(c *gin.Context, op func(ctx context.Context, roleID, volunteerID uuid.UUID) (*roles.RoleAssignment, error)) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role ID"})
		return
	}

	volunteerID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	a, err := op(c.Request.Context(), roleID, volunteerID)
	if err != nil {
		c.JSON(roleErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": RoleAssignmentToResponse(a)})
}

func roleErrorStatus(err error) int {
	switch {
	case errors.Is(err, roles.ErrRoleNotFound),
		errors.Is(err, roles.ErrAssignmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, roles.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
