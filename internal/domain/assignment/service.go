package assignment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/audit"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/completion"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/events"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/notification"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/task"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Assignment failure kinds, in the order they are checked
var (
	ErrNotEligible         = errors.New("volunteer is not eligible for this task")
	ErrAlreadyAssigned     = errors.New("volunteer already has an active completion for this task")
	ErrPrerequisitesNotMet = errors.New("prerequisites not satisfied")
)

// AssignmentError ties a failure to the task/volunteer pair it occurred
// for, so bulk results stay attributable.
type AssignmentError struct {
	TaskID      uuid.UUID `json:"task_id"`
	VolunteerID uuid.UUID `json:"volunteer_id"`
	Err         error     `json:"-"`
	Reason      string    `json:"reason"`
}

func (e *AssignmentError) Error() string {
	return fmt.Sprintf("assignment of task %s to volunteer %s failed: %s", e.TaskID, e.VolunteerID, e.Reason)
}

func (e *AssignmentError) Unwrap() error {
	return e.Err
}

// BulkAssignResult summarizes a bulk or auto assignment run. One pair's
// failure never rolls back another pair's success.
type BulkAssignResult struct {
	TotalAttempted  int                `json:"total_attempted"`
	TotalSuccessful int                `json:"total_successful"`
	TotalFailed     int                `json:"total_failed"`
	Assigned        []uuid.UUID        `json:"assigned_completion_ids"`
	Failures        []*AssignmentError `json:"failures,omitempty"`
}

// TaskSource is the slice of the task service the orchestrator needs
type TaskSource interface {
	GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error)
	PrerequisitesSatisfied(ctx context.Context, taskID, volunteerID uuid.UUID) (bool, []uuid.UUID, error)
}

// CompletionStore is the slice of the completion repository the
// orchestrator needs
type CompletionStore interface {
	Create(ctx context.Context, c *completion.TaskCompletion) error
	FindActive(ctx context.Context, taskID, volunteerID uuid.UUID) (*completion.TaskCompletion, error)
}

// Membership answers role membership questions
type Membership interface {
	IsConfirmedMember(ctx context.Context, roleID, volunteerID uuid.UUID) (bool, error)
	ConfirmedVolunteerIDs(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error)
}

type Service interface {
	// AssignToVolunteer creates a pending completion for the pair after
	// the eligibility, duplicate and prerequisite checks pass, in that
	// order.
	AssignToVolunteer(ctx context.Context, taskID, volunteerID, actorID uuid.UUID) (*completion.TaskCompletion, error)

	// BulkAssign attempts the full cross product of tasks and
	// volunteers. Each pair is its own unit of work.
	BulkAssign(ctx context.Context, taskIDs, volunteerIDs []uuid.UUID, actorID uuid.UUID) (*BulkAssignResult, error)

	// AutoAssign assigns a task to every confirmed member of its role
	AutoAssign(ctx context.Context, taskID, actorID uuid.UUID) (*BulkAssignResult, error)
}

type service struct {
	tasks       TaskSource
	completions CompletionStore
	membership  Membership
	recorder    audit.Recorder
	notifier    notification.DomainNotifier
	redis       *cache.RedisClient
	logger      *zap.Logger
}

func NewService(tasks TaskSource, completions CompletionStore, membership Membership, recorder audit.Recorder, notifier notification.DomainNotifier, redis *cache.RedisClient, logger *zap.Logger) Service {
	return &service{
		tasks:       tasks,
		completions: completions,
		membership:  membership,
		recorder:    recorder,
		notifier:    notifier,
		redis:       redis,
		logger:      logger,
	}
}

func (s *service) AssignToVolunteer(ctx context.Context, taskID, volunteerID, actorID uuid.UUID) (*completion.TaskCompletion, error) {
	t, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if t.Status != task.TaskStatusActive {
		return nil, &AssignmentError{
			TaskID:      taskID,
			VolunteerID: volunteerID,
			Err:         ErrNotEligible,
			Reason:      fmt.Sprintf("task is %s, not active", t.Status),
		}
	}

	member, err := s.membership.IsConfirmedMember(ctx, t.RoleID, volunteerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, &AssignmentError{
			TaskID:      taskID,
			VolunteerID: volunteerID,
			Err:         ErrNotEligible,
			Reason:      "volunteer is not a confirmed member of the task's role",
		}
	}

	existing, err := s.completions.FindActive(ctx, taskID, volunteerID)
	if err != nil && !errors.Is(err, completion.ErrCompletionNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, &AssignmentError{
			TaskID:      taskID,
			VolunteerID: volunteerID,
			Err:         ErrAlreadyAssigned,
			Reason:      fmt.Sprintf("active completion %s already exists", existing.ID),
		}
	}

	satisfied, missing, err := s.tasks.PrerequisitesSatisfied(ctx, taskID, volunteerID)
	if err != nil {
		return nil, err
	}
	if !satisfied {
		return nil, &AssignmentError{
			TaskID:      taskID,
			VolunteerID: volunteerID,
			Err:         ErrPrerequisitesNotMet,
			Reason:      "missing prerequisites: " + joinIDs(missing),
		}
	}

	c := &completion.TaskCompletion{
		ID:                   uuid.New(),
		TaskID:               taskID,
		VolunteerID:          volunteerID,
		CompletionType:       t.TaskType,
		Status:               completion.CompletionStatusPending,
		RequiresVerification: t.RequiresVerification,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}

	if err := s.completions.Create(ctx, c); err != nil {
		// The pre-check races with concurrent assigns; the partial
		// unique index is the authority.
		if errors.Is(err, completion.ErrDuplicateActive) {
			return nil, &AssignmentError{
				TaskID:      taskID,
				VolunteerID: volunteerID,
				Err:         ErrAlreadyAssigned,
				Reason:      "active completion already exists",
			}
		}
		return nil, err
	}

	s.recorder.Record(ctx, audit.RecordInput{
		ActorID:    actorID,
		Operation:  "task_assigned",
		EntityType: "completion",
		EntityID:   c.ID,
		AfterState: string(completion.CompletionStatusPending),
		Metadata: map[string]interface{}{
			"task_id":      taskID.String(),
			"volunteer_id": volunteerID.String(),
		},
	})
	s.publishEvent(ctx, actorID, c.ID)

	if s.notifier != nil {
		data := map[string]string{
			"task_id":       taskID.String(),
			"completion_id": c.ID.String(),
		}
		if err := s.notifier.NotifyVolunteer(ctx, volunteerID, notification.TaskAssigned,
			"New task assigned", fmt.Sprintf("You have been assigned the task %q.", t.Title),
			data, "completion", c.ID); err != nil {
			s.logger.Warn("Failed to send assignment notification",
				zap.String("volunteer_id", volunteerID.String()),
				zap.Error(err))
		}
	}

	return c, nil
}

func (s *service) BulkAssign(ctx context.Context, taskIDs, volunteerIDs []uuid.UUID, actorID uuid.UUID) (*BulkAssignResult, error) {
	result := &BulkAssignResult{}

	for _, taskID := range taskIDs {
		for _, volunteerID := range volunteerIDs {
			result.TotalAttempted++
			c, err := s.AssignToVolunteer(ctx, taskID, volunteerID, actorID)
			if err != nil {
				result.TotalFailed++
				result.Failures = append(result.Failures, asAssignmentError(taskID, volunteerID, err))
				continue
			}
			result.TotalSuccessful++
			result.Assigned = append(result.Assigned, c.ID)
		}
	}

	s.logger.Info("Bulk assignment completed",
		zap.Int("attempted", result.TotalAttempted),
		zap.Int("successful", result.TotalSuccessful),
		zap.Int("failed", result.TotalFailed))

	return result, nil
}

// AutoAssign assigns a task to every confirmed member of its role,
// skipping members who fail their individual checks.
func (s *service) AutoAssign(ctx context.Context, taskID, actorID uuid.UUID) (*BulkAssignResult, error) {
	t, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	members, err := s.membership.ConfirmedVolunteerIDs(ctx, t.RoleID)
	if err != nil {
		return nil, err
	}

	result := &BulkAssignResult{}
	for _, volunteerID := range members {
		result.TotalAttempted++
		c, err := s.AssignToVolunteer(ctx, taskID, volunteerID, actorID)
		if err != nil {
			result.TotalFailed++
			result.Failures = append(result.Failures, asAssignmentError(taskID, volunteerID, err))
			s.logger.Debug("Auto-assign skipped volunteer",
				zap.String("task_id", taskID.String()),
				zap.String("volunteer_id", volunteerID.String()),
				zap.Error(err))
			continue
		}
		result.TotalSuccessful++
		result.Assigned = append(result.Assigned, c.ID)
	}

	return result, nil
}

func (s *service) publishEvent(ctx context.Context, actorID, entityID uuid.UUID) {
	if s.redis == nil {
		return
	}
	event := &events.EngineEvent{
		EventType: events.EventTypeAssignmentUpdate,
		ActorID:   actorID,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
		Details: map[string]interface{}{
			"action": "task_assigned",
		},
	}
	if err := s.redis.PublishEngineEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish engine event", zap.Error(err))
	}
}

func asAssignmentError(taskID, volunteerID uuid.UUID, err error) *AssignmentError {
	var assignErr *AssignmentError
	if errors.As(err, &assignErr) {
		return assignErr
	}
	return &AssignmentError{
		TaskID:      taskID,
		VolunteerID: volunteerID,
		Err:         err,
		Reason:      err.Error(),
	}
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
