package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/dto"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/middleware"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/completion"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CompletionHandler handles HTTP requests for completion operations
type CompletionHandler struct {
	service completion.Service
}

// NewCompletionHandler creates a new CompletionHandler instance
func NewCompletionHandler(service completion.Service) *CompletionHandler {
	return &CompletionHandler{service: service}
}

// GetCompletion returns a single completion by ID
func (h *CompletionHandler) GetCompletion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid completion ID"})
		return
	}

	result, err := h.service.GetCompletion(c.Request.Context(), id)
	if err != nil {
		c.JSON(completionErrorStatus(err), completionErrorBody(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": CompletionToResponse(result)})
}

// ListCompletions returns a paginated, filtered list of completions
func (h *CompletionHandler) ListCompletions(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page number"})
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	if err != nil || pageSize < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page size"})
		return
	}

	filter := completion.CompletionFilter{Page: page, PageSize: pageSize}

	if v := c.Query("task_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task_id"})
			return
		}
		filter.TaskID = &id
	}
	if v := c.Query("volunteer_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid volunteer_id"})
			return
		}
		filter.VolunteerID = &id
	}
	if v := c.Query("status"); v != "" {
		status := completion.CompletionStatus(v)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status value"})
			return
		}
		filter.Status = &status
	}

	completions, total, err := h.service.ListCompletions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.CompletionResponse, 0, len(completions))
	for i := range completions {
		responses = append(responses, CompletionToResponse(&completions[i]))
	}

	c.JSON(http.StatusOK, dto.CompletionListResponse{
		Completions: responses,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	})
}

// StartCompletion stamps the time the volunteer began working
func (h *CompletionHandler) StartCompletion(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, id, actorID uuid.UUID) (*completion.TaskCompletion, error) {
		return h.service.Start(ctx.Request.Context(), id, actorID)
	})
}

// SubmitCompletion submits the volunteer's work for review
func (h *CompletionHandler) SubmitCompletion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid completion ID"})
		return
	}

	var req dto.SubmitCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	input := completion.SubmitInput{
		Data: completion.CompletionPayload{
			Completed: req.Completed,
			Photos:    req.Photos,
			Text:      req.Text,
			Fields:    req.Fields,
		},
		TimeSpentMinutes: req.TimeSpentMinutes,
	}

	result, err := h.service.Submit(c.Request.Context(), id, actorID, input)
	if err != nil {
		c.JSON(completionErrorStatus(err), completionErrorBody(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": CompletionToResponse(result)})
}

// StartReview claims a submitted completion for review
func (h *CompletionHandler) StartReview(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, id, actorID uuid.UUID) (*completion.TaskCompletion, error) {
		return h.service.StartReview(ctx.Request.Context(), id, actorID)
	})
}

// ApproveCompletion approves a submitted or in-review completion
func (h *CompletionHandler) ApproveCompletion(c *gin.Context) {
	var req dto.ReviewNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.transition(c, func(ctx *gin.Context, id, actorID uuid.UUID) (*completion.TaskCompletion, error) {
		return h.service.Approve(ctx.Request.Context(), id, actorID, req.Notes)
	})
}

// RejectCompletion rejects a completion with a required reason
func (h *CompletionHandler) RejectCompletion(c *gin.Context) {
	var req dto.RejectCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.transition(c, func(ctx *gin.Context, id, actorID uuid.UUID) (*completion.TaskCompletion, error) {
		return h.service.Reject(ctx.Request.Context(), id, actorID, req.Reason)
	})
}

// RequestRevision sends a completion back to the volunteer for rework
func (h *CompletionHandler) RequestRevision(c *gin.Context) {
	var req dto.ReviewNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.transition(c, func(ctx *gin.Context, id, actorID uuid.UUID) (*completion.TaskCompletion, error) {
		return h.service.RequestRevision(ctx.Request.Context(), id, actorID, req.Notes)
	})
}

// VerifyCompletion applies the secondary approval with a quality score
func (h *CompletionHandler) VerifyCompletion(c *gin.Context) {
	var req dto.VerifyCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.transition(c, func(ctx *gin.Context, id, actorID uuid.UUID) (*completion.TaskCompletion, error) {
		return h.service.Verify(ctx.Request.Context(), id, actorID, req.QualityScore, req.Notes)
	})
}

// CancelCompletion cancels a non-terminal completion
func (h *CompletionHandler) CancelCompletion(c *gin.Context) {
	var req dto.CancelCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.transition(c, func(ctx *gin.Context, id, actorID uuid.UUID) (*completion.TaskCompletion, error) {
		return h.service.Cancel(ctx.Request.Context(), id, actorID, req.Reason)
	})
}

// ResubmitCompletion opens a fresh attempt after a rejection
func (h *CompletionHandler) ResubmitCompletion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid completion ID"})
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.service.Resubmit(c.Request.Context(), id, actorID)
	if err != nil {
		c.JSON(completionErrorStatus(err), completionErrorBody(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": CompletionToResponse(result)})
}

func (h *CompletionHandler) transition(c *gin.Context, op func(*gin.Context, uuid.UUID, uuid.UUID) (*completion.TaskCompletion, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid completion ID"})
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := op(c, id, actorID)
	if err != nil {
		c.JSON(completionErrorStatus(err), completionErrorBody(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": CompletionToResponse(result)})
}

func completionErrorStatus(err error) int {
	var transitionErr *completion.TransitionError
	var validationErr *completion.ValidationError
	switch {
	case errors.Is(err, completion.ErrCompletionNotFound):
		return http.StatusNotFound
	case errors.As(err, &transitionErr),
		errors.Is(err, completion.ErrDuplicateActive):
		return http.StatusConflict
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, completion.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// completionErrorBody surfaces validator violations as a list so the
// volunteer sees every problem at once
func completionErrorBody(err error) gin.H {
	var validationErr *completion.ValidationError
	if errors.As(err, &validationErr) {
		return gin.H{"error": "submission rejected", "violations": validationErr.Violations}
	}
	return gin.H{"error": err.Error()}
}
