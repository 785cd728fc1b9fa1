package handlers

import (
	"errors"
	"net/http"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/dto"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/middleware"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/assignment"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/task"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssignmentHandler handles HTTP requests for assignment operations
type AssignmentHandler struct {
	service assignment.Service
}

// NewAssignmentHandler creates a new AssignmentHandler instance
func NewAssignmentHandler(service assignment.Service) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// AssignTask assigns one task to one volunteer
func (h *AssignmentHandler) AssignTask(c *gin.Context) {
	var req dto.AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.service.AssignToVolunteer(c.Request.Context(), req.TaskID, req.VolunteerID, actorID)
	if err != nil {
		middleware.RecordAssignmentOutcome(outcomeLabel(err))
		c.JSON(assignmentErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	middleware.RecordAssignmentOutcome("assigned")
	c.JSON(http.StatusCreated, gin.H{"data": CompletionToResponse(result)})
}

// BulkAssign assigns the cross product of tasks and volunteers. Partial
// failure is a normal outcome, reported per pair.
func (h *AssignmentHandler) BulkAssign(c *gin.Context) {
	var req dto.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.service.BulkAssign(c.Request.Context(), req.TaskIDs, req.VolunteerIDs, actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": BulkResultToResponse(result)})
}

// AutoAssign assigns a task to every confirmed member of its role
func (h *AssignmentHandler) AutoAssign(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.service.AutoAssign(c.Request.Context(), taskID, actorID)
	if err != nil {
		c.JSON(assignmentErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": BulkResultToResponse(result)})
}

func assignmentErrorStatus(err error) int {
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, assignment.ErrAlreadyAssigned):
		return http.StatusConflict
	case errors.Is(err, assignment.ErrNotEligible),
		errors.Is(err, assignment.ErrPrerequisitesNotMet):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, assignment.ErrNotEligible):
		return "not_eligible"
	case errors.Is(err, assignment.ErrAlreadyAssigned):
		return "already_assigned"
	case errors.Is(err, assignment.ErrPrerequisitesNotMet):
		return "prerequisites_not_met"
	default:
		return "error"
	}
}
