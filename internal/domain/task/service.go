package task

import (
	"context"
	"errors"
	"time"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/audit"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/events"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

var ErrInvalidTransition = errors.New("invalid task status transition")

// CompletionChecker answers whether a volunteer already holds a
// satisfying (approved or verified) completion for a task. Implemented by
// the completion repository; injected here to keep the dependency one-way.
type CompletionChecker interface {
	HasSatisfiedCompletion(ctx context.Context, taskID, volunteerID uuid.UUID) (bool, error)
}

type Service interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]Task, int64, error)
	UpdateTask(ctx context.Context, id uuid.UUID, input UpdateTaskInput) (*Task, error)
	UpdateTaskStatus(ctx context.Context, id uuid.UUID, status TaskStatus, actorID uuid.UUID) (*Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error

	AddPrerequisite(ctx context.Context, taskID, prerequisiteID, actorID uuid.UUID) error
	RemovePrerequisite(ctx context.Context, taskID, prerequisiteID, actorID uuid.UUID) error
	ListPrerequisites(ctx context.Context, taskID uuid.UUID) ([]Task, error)
	PrerequisitesSatisfied(ctx context.Context, taskID, volunteerID uuid.UUID) (bool, []uuid.UUID, error)

	TasksDueSoon(ctx context.Context, window time.Duration) ([]Task, error)
}

type CreateTaskInput struct {
	Title                string             `json:"title"`
	Description          string             `json:"description"`
	TaskType             TaskType           `json:"task_type"`
	Category             string             `json:"category"`
	Priority             TaskPriority       `json:"priority"`
	IsMandatory          bool               `json:"is_mandatory"`
	RequiresVerification bool               `json:"requires_verification"`
	RoleID               uuid.UUID          `json:"role_id"`
	EventID              uuid.UUID          `json:"event_id"`
	VenueID              *uuid.UUID         `json:"venue_id,omitempty"`
	StartDate            time.Time          `json:"start_date"`
	DueDate              *time.Time         `json:"due_date,omitempty"`
	Configuration        *TaskConfiguration `json:"configuration,omitempty"`
	Tags                 pq.StringArray     `json:"tags,omitempty"`
	CreatedBy            uuid.UUID          `json:"created_by"`
}

type UpdateTaskInput struct {
	Title                *string            `json:"title,omitempty"`
	Description          *string            `json:"description,omitempty"`
	Category             *string            `json:"category,omitempty"`
	Priority             *TaskPriority      `json:"priority,omitempty"`
	IsMandatory          *bool              `json:"is_mandatory,omitempty"`
	RequiresVerification *bool              `json:"requires_verification,omitempty"`
	StartDate            *time.Time         `json:"start_date,omitempty"`
	DueDate              *time.Time         `json:"due_date,omitempty"`
	Configuration        *TaskConfiguration `json:"configuration,omitempty"`
	Tags                 pq.StringArray     `json:"tags,omitempty"`
}

type service struct {
	repo        TaskRepository
	completions CompletionChecker
	recorder    audit.Recorder
	redis       *cache.RedisClient
	logger      *zap.Logger
}

func NewService(repo TaskRepository, completions CompletionChecker, recorder audit.Recorder, redis *cache.RedisClient, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		completions: completions,
		recorder:    recorder,
		redis:       redis,
		logger:      logger,
	}
}

func (s *service) CreateTask(ctx context.Context, input CreateTaskInput) (*Task, error) {
	if input.Title == "" {
		return nil, ErrInvalidInput
	}
	if input.TaskType == "" {
		input.TaskType = TaskTypeCheckbox
	}
	if !input.TaskType.IsValid() {
		return nil, ErrInvalidInput
	}
	if input.Priority == "" {
		input.Priority = TaskPriorityNormal
	}
	if !input.Priority.IsValid() {
		return nil, ErrInvalidInput
	}
	if input.DueDate != nil && input.StartDate.After(*input.DueDate) {
		return nil, ErrInvalidDates
	}

	cfg := DefaultConfiguration(input.TaskType)
	if input.Configuration != nil {
		cfg = *input.Configuration
	}
	if err := cfg.Validate(input.TaskType); err != nil {
		return nil, err
	}
	encoded, err := cfg.Encode()
	if err != nil {
		return nil, err
	}

	task := &Task{
		ID:                   uuid.New(),
		Title:                input.Title,
		Description:          input.Description,
		TaskType:             input.TaskType,
		Category:             input.Category,
		Priority:             input.Priority,
		Status:               TaskStatusDraft,
		IsMandatory:          input.IsMandatory,
		RequiresVerification: input.RequiresVerification,
		RoleID:               input.RoleID,
		EventID:              input.EventID,
		VenueID:              input.VenueID,
		StartDate:            input.StartDate,
		DueDate:              input.DueDate,
		Configuration:        encoded,
		Tags:                 input.Tags,
		CreatedBy:            input.CreatedBy,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.RecordInput{
		ActorID:    input.CreatedBy,
		Operation:  "task_created",
		EntityType: "task",
		EntityID:   task.ID,
		AfterState: string(task.Status),
		Metadata: map[string]interface{}{
			"title":     task.Title,
			"task_type": string(task.TaskType),
			"role_id":   task.RoleID.String(),
			"event_id":  task.EventID.String(),
		},
	})

	s.publishEvent(ctx, input.CreatedBy, task.ID, "task_created")

	return task, nil
}

func (s *service) GetTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateTask(ctx context.Context, id uuid.UUID, input UpdateTaskInput) (*Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrInvalidInput
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Category != nil {
		task.Category = *input.Category
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, ErrInvalidInput
		}
		task.Priority = *input.Priority
	}
	if input.IsMandatory != nil {
		task.IsMandatory = *input.IsMandatory
	}
	if input.RequiresVerification != nil {
		task.RequiresVerification = *input.RequiresVerification
	}
	if input.StartDate != nil {
		task.StartDate = *input.StartDate
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if task.DueDate != nil && task.StartDate.After(*task.DueDate) {
		return nil, ErrInvalidDates
	}
	if input.Configuration != nil {
		if err := input.Configuration.Validate(task.TaskType); err != nil {
			return nil, err
		}
		encoded, err := input.Configuration.Encode()
		if err != nil {
			return nil, err
		}
		task.Configuration = encoded
	}
	if input.Tags != nil {
		task.Tags = input.Tags
	}

	task.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *service) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status TaskStatus, actorID uuid.UUID) (*Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !status.IsValid() {
		return nil, ErrInvalidInput
	}
	if !isValidStatusTransition(task.Status, status) {
		return nil, ErrInvalidTransition
	}

	oldStatus := task.Status
	task.Status = status
	task.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.RecordInput{
		ActorID:     actorID,
		Operation:   "task_status_changed",
		EntityType:  "task",
		EntityID:    task.ID,
		BeforeState: string(oldStatus),
		AfterState:  string(status),
	})

	s.publishEvent(ctx, actorID, task.ID, "task_status_changed")

	return task, nil
}

func (s *service) DeleteTask(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.RecordInput{
		ActorID:     actorID,
		Operation:   "task_deleted",
		EntityType:  "task",
		EntityID:    task.ID,
		BeforeState: string(task.Status),
	})

	s.publishEvent(ctx, actorID, task.ID, "task_deleted")

	return s.repo.Delete(ctx, id)
}

// AddPrerequisite adds the directed edge task -> prerequisite after
// verifying the edge would not close a cycle in the prerequisite graph.
func (s *service) AddPrerequisite(ctx context.Context, taskID, prerequisiteID, actorID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, taskID); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, prerequisiteID); err != nil {
		return err
	}

	cyclic, err := wouldCreateCycle(ctx, s.repo, taskID, prerequisiteID)
	if err != nil {
		return err
	}
	if cyclic {
		return ErrCycleDetected
	}

	edge := &TaskPrerequisite{
		TaskID:         taskID,
		PrerequisiteID: prerequisiteID,
		CreatedBy:      actorID,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.AddPrerequisite(ctx, edge); err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.RecordInput{
		ActorID:    actorID,
		Operation:  "prerequisite_added",
		EntityType: "task",
		EntityID:   taskID,
		Metadata: map[string]interface{}{
			"prerequisite_id": prerequisiteID.String(),
		},
	})

	return nil
}

func (s *service) RemovePrerequisite(ctx context.Context, taskID, prerequisiteID, actorID uuid.UUID) error {
	if err := s.repo.RemovePrerequisite(ctx, taskID, prerequisiteID); err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.RecordInput{
		ActorID:    actorID,
		Operation:  "prerequisite_removed",
		EntityType: "task",
		EntityID:   taskID,
		Metadata: map[string]interface{}{
			"prerequisite_id": prerequisiteID.String(),
		},
	})

	return nil
}

func (s *service) ListPrerequisites(ctx context.Context, taskID uuid.UUID) ([]Task, error) {
	ids, err := s.repo.Prerequisites(ctx, taskID)
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(ids))
	for _, id := range ids {
		task, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

// PrerequisitesSatisfied reports whether every direct prerequisite of the
// task has an approved or verified completion for the volunteer, and
// returns the ids of the prerequisites still missing one. A volunteer's
// completions count even when the prerequisite task is no longer active.
func (s *service) PrerequisitesSatisfied(ctx context.Context, taskID, volunteerID uuid.UUID) (bool, []uuid.UUID, error) {
	ids, err := s.repo.Prerequisites(ctx, taskID)
	if err != nil {
		return false, nil, err
	}

	var missing []uuid.UUID
	for _, prereqID := range ids {
		satisfied, err := s.completions.HasSatisfiedCompletion(ctx, prereqID, volunteerID)
		if err != nil {
			return false, nil, err
		}
		if !satisfied {
			missing = append(missing, prereqID)
		}
	}

	return len(missing) == 0, missing, nil
}

func (s *service) TasksDueSoon(ctx context.Context, window time.Duration) ([]Task, error) {
	return s.repo.FindDueSoon(ctx, window)
}

func (s *service) publishEvent(ctx context.Context, actorID, entityID uuid.UUID, action string) {
	if s.redis == nil {
		return
	}
	event := &events.EngineEvent{
		EventType: events.EventTypeTaskUpdate,
		ActorID:   actorID,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
		Details: map[string]interface{}{
			"action": action,
		},
	}
	if err := s.redis.PublishEngineEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish engine event", zap.Error(err))
	}
}

func isValidStatusTransition(current, next TaskStatus) bool {
	transitions := map[TaskStatus][]TaskStatus{
		TaskStatusDraft: {
			TaskStatusActive,
			TaskStatusCancelled,
		},
		TaskStatusActive: {
			TaskStatusSuspended,
			TaskStatusCompleted,
			TaskStatusCancelled,
			TaskStatusArchived,
		},
		TaskStatusSuspended: {
			TaskStatusActive,
			TaskStatusCancelled,
			TaskStatusArchived,
		},
		TaskStatusCompleted: {
			TaskStatusArchived,
		},
		TaskStatusCancelled: {
			TaskStatusArchived,
		},
		TaskStatusArchived: {},
	}

	allowed, exists := transitions[current]
	if !exists {
		return false
	}

	for _, status := range allowed {
		if status == next {
			return true
		}
	}
	return false
}
