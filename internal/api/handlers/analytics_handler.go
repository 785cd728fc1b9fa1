package handlers

import (
	"net/http"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/analytics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalyticsHandler handles HTTP requests for aggregate reporting
type AnalyticsHandler struct {
	service analytics.Service
}

// NewAnalyticsHandler creates a new AnalyticsHandler instance
func NewAnalyticsHandler(service analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// GetSummary returns the full aggregate picture for the requested scope
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	scope, ok := scopeFromQuery(c)
	if !ok {
		return
	}

	summary, err := h.service.Summarize(c.Request.Context(), scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// GetCompletionRate returns the satisfied percentage for the scope
func (h *AnalyticsHandler) GetCompletionRate(c *gin.Context) {
	scope, ok := scopeFromQuery(c)
	if !ok {
		return
	}

	rate, err := h.service.CompletionRate(c.Request.Context(), scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"completion_rate": rate})
}

// GetAverageMinutes returns the average completion time in minutes, or
// null when no satisfied completion carries timing data
func (h *AnalyticsHandler) GetAverageMinutes(c *gin.Context) {
	scope, ok := scopeFromQuery(c)
	if !ok {
		return
	}

	avg, err := h.service.AverageCompletionMinutes(c.Request.Context(), scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"average_minutes": avg})
}

func scopeFromQuery(c *gin.Context) (analytics.Scope, bool) {
	var scope analytics.Scope

	if v := c.Query("task_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task_id"})
			return scope, false
		}
		scope.TaskID = &id
	}
	if v := c.Query("role_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role_id"})
			return scope, false
		}
		scope.RoleID = &id
	}
	if v := c.Query("volunteer_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid volunteer_id"})
			return scope, false
		}
		scope.VolunteerID = &id
	}

	return scope, true
}
