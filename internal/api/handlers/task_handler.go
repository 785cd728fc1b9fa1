package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/dto"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/middleware"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/task"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TaskHandler handles HTTP requests for task operations
type TaskHandler struct {
	service task.Service
}

// NewTaskHandler creates a new TaskHandler instance
func NewTaskHandler(service task.Service) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTask creates a new task in draft status
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creatorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	input := task.CreateTaskInput{
		Title:                req.Title,
		Description:          req.Description,
		TaskType:             task.TaskType(req.TaskType),
		Category:             req.Category,
		Priority:             task.TaskPriority(req.Priority),
		IsMandatory:          req.IsMandatory,
		RequiresVerification: req.RequiresVerification,
		RoleID:               req.RoleID,
		EventID:              req.EventID,
		VenueID:              req.VenueID,
		StartDate:            req.StartDate,
		DueDate:              req.DueDate,
		Configuration:        configFromDTO(req.Configuration),
		Tags:                 pq.StringArray(req.Tags),
		CreatedBy:            creatorID,
	}

	created, err := h.service.CreateTask(c.Request.Context(), input)
	if err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": TaskToResponse(created)})
}

// GetTask returns a single task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	t, err := h.service.GetTask(c.Request.Context(), id)
	if err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": TaskToResponse(t)})
}

// ListTasks returns a paginated, filtered list of tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
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

	filter := task.TaskFilter{Page: page, PageSize: pageSize}

	if v := c.Query("event_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event_id"})
			return
		}
		filter.EventID = &id
	}
	if v := c.Query("role_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role_id"})
			return
		}
		filter.RoleID = &id
	}
	if v := c.Query("venue_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue_id"})
			return
		}
		filter.VenueID = &id
	}
	if v := c.Query("status"); v != "" {
		status := task.TaskStatus(v)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status value"})
			return
		}
		filter.Status = &status
	}
	if v := c.Query("task_type"); v != "" {
		taskType := task.TaskType(v)
		if !taskType.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task_type value"})
			return
		}
		filter.TaskType = &taskType
	}
	if v := c.Query("priority"); v != "" {
		priority := task.TaskPriority(v)
		if !priority.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority value"})
			return
		}
		filter.Priority = &priority
	}
	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}
	if v := c.Query("is_mandatory"); v != "" {
		mandatory, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid is_mandatory value"})
			return
		}
		filter.IsMandatory = &mandatory
	}

	tasks, total, err := h.service.ListTasks(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, TaskToResponse(&tasks[i]))
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// UpdateTask updates a task's mutable fields
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := task.UpdateTaskInput{
		Title:                req.Title,
		Description:          req.Description,
		Category:             req.Category,
		IsMandatory:          req.IsMandatory,
		RequiresVerification: req.RequiresVerification,
		StartDate:            req.StartDate,
		DueDate:              req.DueDate,
		Configuration:        configFromDTO(req.Configuration),
		Tags:                 pq.StringArray(req.Tags),
	}
	if req.Priority != nil {
		priority := task.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	updated, err := h.service.UpdateTask(c.Request.Context(), id, input)
	if err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": TaskToResponse(updated)})
}

// UpdateTaskStatus moves a task through its lifecycle
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	updated, err := h.service.UpdateTaskStatus(c.Request.Context(), id, task.TaskStatus(req.Status), actorID)
	if err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": TaskToResponse(updated)})
}

// DeleteTask removes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), id, actorID); err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted successfully"})
}

// AddPrerequisite adds a prerequisite edge to the task graph
func (h *TaskHandler) AddPrerequisite(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	var req dto.AddPrerequisiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.service.AddPrerequisite(c.Request.Context(), id, req.PrerequisiteID, actorID); err != nil {
		status := taskErrorStatus(err)
		if errors.Is(err, task.ErrCycleDetected) || errors.Is(err, task.ErrPrerequisiteExists) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "prerequisite added"})
}

// RemovePrerequisite removes a prerequisite edge
func (h *TaskHandler) RemovePrerequisite(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}
	prereqID, err := uuid.Parse(c.Param("prerequisite_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prerequisite ID"})
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.service.RemovePrerequisite(c.Request.Context(), id, prereqID, actorID); err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "prerequisite removed"})
}

// ListPrerequisites returns the direct prerequisites of a task
func (h *TaskHandler) ListPrerequisites(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	prereqs, err := h.service.ListPrerequisites(c.Request.Context(), id)
	if err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.TaskResponse, 0, len(prereqs))
	for i := range prereqs {
		responses = append(responses, TaskToResponse(&prereqs[i]))
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// CheckPrerequisites reports whether a volunteer satisfies a task's
// prerequisites, and which ones are still missing
func (h *TaskHandler) CheckPrerequisites(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}
	volunteerID, err := uuid.Parse(c.Query("volunteer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid volunteer_id"})
		return
	}

	satisfied, missing, err := h.service.PrerequisitesSatisfied(c.Request.Context(), id, volunteerID)
	if err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"satisfied": satisfied,
		"missing":   missing,
	})
}

func configFromDTO(cfg *dto.TaskConfigInput) *task.TaskConfiguration {
	if cfg == nil {
		return nil
	}
	out := &task.TaskConfiguration{}
	if cfg.Photo != nil {
		out.Photo = &task.PhotoConfig{MinPhotos: cfg.Photo.MinPhotos, MaxPhotos: cfg.Photo.MaxPhotos}
	}
	if cfg.Text != nil {
		out.Text = &task.TextConfig{MinLength: cfg.Text.MinLength, MaxLength: cfg.Text.MaxLength}
	}
	if cfg.Custom != nil {
		out.Custom = &task.CustomConfig{RequiredFields: cfg.Custom.RequiredFields}
	}
	return out
}

func taskErrorStatus(err error) int {
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, task.ErrInvalidInput),
		errors.Is(err, task.ErrInvalidDates),
		errors.Is(err, task.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, task.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
