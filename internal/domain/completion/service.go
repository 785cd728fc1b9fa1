package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/audit"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/events"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/notification"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/task"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	GetCompletion(ctx context.Context, id uuid.UUID) (*TaskCompletion, error)
	ListCompletions(ctx context.Context, filter CompletionFilter) ([]TaskCompletion, int64, error)

	// Start stamps time_started when the volunteer begins working
	Start(ctx context.Context, id, actorID uuid.UUID) (*TaskCompletion, error)

	Submit(ctx context.Context, id, actorID uuid.UUID, input SubmitInput) (*TaskCompletion, error)
	StartReview(ctx context.Context, id, actorID uuid.UUID) (*TaskCompletion, error)
	Approve(ctx context.Context, id, actorID uuid.UUID, notes string) (*TaskCompletion, error)
	Reject(ctx context.Context, id, actorID uuid.UUID, reason string) (*TaskCompletion, error)
	RequestRevision(ctx context.Context, id, actorID uuid.UUID, notes string) (*TaskCompletion, error)
	Verify(ctx context.Context, id, actorID uuid.UUID, qualityScore int, notes string) (*TaskCompletion, error)
	Cancel(ctx context.Context, id, actorID uuid.UUID, reason string) (*TaskCompletion, error)

	// Resubmit creates a fresh pending completion linked to a rejected one
	Resubmit(ctx context.Context, id, actorID uuid.UUID) (*TaskCompletion, error)
}

type SubmitInput struct {
	Data             CompletionPayload `json:"data"`
	TimeSpentMinutes *int              `json:"time_spent_minutes,omitempty"`
}

type service struct {
	repo     Repository
	tasks    task.TaskRepository
	recorder audit.Recorder
	notifier notification.DomainNotifier
	redis    *cache.RedisClient
	logger   *zap.Logger
}

func NewService(repo Repository, tasks task.TaskRepository, recorder audit.Recorder, notifier notification.DomainNotifier, redis *cache.RedisClient, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		tasks:    tasks,
		recorder: recorder,
		notifier: notifier,
		redis:    redis,
		logger:   logger,
	}
}

func (s *service) GetCompletion(ctx context.Context, id uuid.UUID) (*TaskCompletion, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListCompletions(ctx context.Context, filter CompletionFilter) ([]TaskCompletion, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) Start(ctx context.Context, id, actorID uuid.UUID) (*TaskCompletion, error) {
	completion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if completion.Status != CompletionStatusPending {
		return nil, NewTransitionError(completion.Status, CompletionStatusPending)
	}
	if completion.TimeStarted != nil {
		return completion, nil
	}

	now := time.Now()
	err = s.repo.SaveTransition(ctx, completion, completion.Status, map[string]interface{}{
		"time_started": now,
	}, CounterDelta{})
	if err != nil {
		return nil, s.mapTransitionErr(ctx, id, completion.Status, err)
	}
	completion.TimeStarted = &now
	return completion, nil
}

// Submit moves a pending or revision_required completion to submitted
// after running the type-specific validator. A failed validation refuses
// the transition and leaves the completion untouched.
func (s *service) Submit(ctx context.Context, id, actorID uuid.UUID, input SubmitInput) (*TaskCompletion, error) {
	completion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(completion.Status, CompletionStatusSubmitted) {
		return nil, NewTransitionError(completion.Status, CompletionStatusSubmitted)
	}

	owner, err := s.tasks.FindByID(ctx, completion.TaskID)
	if err != nil {
		return nil, err
	}
	cfg, err := task.DecodeConfiguration(owner.Configuration, owner.TaskType)
	if err != nil {
		return nil, err
	}

	if violations := ValidateSubmission(owner.TaskType, cfg, input.Data); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	encoded, err := input.Data.Encode()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	oldStatus := completion.Status
	updates := map[string]interface{}{
		"status":          CompletionStatusSubmitted,
		"completion_data": encoded,
		"submitted_at":    now,
	}
	if input.TimeSpentMinutes != nil {
		if *input.TimeSpentMinutes < 0 {
			return nil, ErrInvalidInput
		}
		updates["time_spent_minutes"] = *input.TimeSpentMinutes
	}

	if err := s.repo.SaveTransition(ctx, completion, oldStatus, updates, CounterDelta{}); err != nil {
		return nil, s.mapTransitionErr(ctx, id, CompletionStatusSubmitted, err)
	}

	completion.Status = CompletionStatusSubmitted
	completion.CompletionData = encoded
	completion.SubmittedAt = &now
	completion.TimeSpentMinutes = input.TimeSpentMinutes

	s.afterTransition(ctx, completion, actorID, "completion_submitted", oldStatus, nil)
	return completion, nil
}

func (s *service) StartReview(ctx context.Context, id, actorID uuid.UUID) (*TaskCompletion, error) {
	return s.reviewTransition(ctx, id, actorID, CompletionStatusUnderReview,
		"completion_review_started", nil, CounterDelta{}, "")
}

// Approve finalizes a submitted or in-review completion. The owning
// task's total_completions counter is incremented in the same transaction
// as the status change, exactly once per completion: a repeated approve
// fails the transition check before any counter is touched.
func (s *service) Approve(ctx context.Context, id, actorID uuid.UUID, notes string) (*TaskCompletion, error) {
	now := time.Now()
	completion, err := s.reviewTransition(ctx, id, actorID, CompletionStatusApproved,
		"completion_approved", map[string]interface{}{
			"completed_at": now,
			"review_notes": notes,
		}, CounterDelta{Total: 1}, notes)
	if err != nil {
		return nil, err
	}
	completion.CompletedAt = &now
	completion.ReviewNotes = notes

	s.notify(ctx, completion, notification.CompletionApproved, "Task completion approved",
		"Your task completion has been approved.")
	return completion, nil
}

func (s *service) Reject(ctx context.Context, id, actorID uuid.UUID, reason string) (*TaskCompletion, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrInvalidInput)
	}
	completion, err := s.reviewTransition(ctx, id, actorID, CompletionStatusRejected,
		"completion_rejected", map[string]interface{}{
			"review_notes": reason,
		}, CounterDelta{}, reason)
	if err != nil {
		return nil, err
	}
	completion.ReviewNotes = reason

	s.notify(ctx, completion, notification.CompletionRejected, "Task completion rejected", reason)
	return completion, nil
}

func (s *service) RequestRevision(ctx context.Context, id, actorID uuid.UUID, notes string) (*TaskCompletion, error) {
	completion, err := s.reviewTransition(ctx, id, actorID, CompletionStatusRevisionRequired,
		"completion_revision_requested", map[string]interface{}{
			"revision_count": gorm.Expr("revision_count + 1"),
			"revision_notes": notes,
		}, CounterDelta{}, notes)
	if err != nil {
		return nil, err
	}
	completion.RevisionCount++
	completion.RevisionNotes = notes

	s.notify(ctx, completion, notification.CompletionRevisionNeeded, "Revision requested", notes)
	return completion, nil
}

// Verify applies the secondary approval step. It is legal only from
// approved, only for completions that inherited requires_verification,
// and only with a quality score.
func (s *service) Verify(ctx context.Context, id, actorID uuid.UUID, qualityScore int, notes string) (*TaskCompletion, error) {
	completion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(completion.Status, CompletionStatusVerified) {
		return nil, NewTransitionError(completion.Status, CompletionStatusVerified)
	}
	if !completion.RequiresVerification {
		return nil, &TransitionError{
			Attempted: CompletionStatusVerified,
			Current:   completion.Status,
			Reason:    "task does not require verification",
		}
	}
	if qualityScore == 0 {
		return nil, &TransitionError{
			Attempted: CompletionStatusVerified,
			Current:   completion.Status,
			Reason:    "quality score is required",
		}
	}
	if qualityScore < 1 || qualityScore > 5 {
		return nil, fmt.Errorf("%w: quality score must be between 1 and 5", ErrInvalidInput)
	}

	now := time.Now()
	oldStatus := completion.Status
	updates := map[string]interface{}{
		"status":             CompletionStatusVerified,
		"verified_by":        actorID,
		"verified_at":        now,
		"quality_score":      qualityScore,
		"verification_notes": notes,
	}

	if err := s.repo.SaveTransition(ctx, completion, oldStatus, updates, CounterDelta{Verified: 1}); err != nil {
		return nil, s.mapTransitionErr(ctx, id, CompletionStatusVerified, err)
	}

	completion.Status = CompletionStatusVerified
	completion.VerifiedBy = &actorID
	completion.VerifiedAt = &now
	completion.QualityScore = &qualityScore
	completion.VerificationNotes = notes

	s.afterTransition(ctx, completion, actorID, "completion_verified", oldStatus, map[string]interface{}{
		"quality_score": qualityScore,
	})
	s.notify(ctx, completion, notification.CompletionVerified, "Task completion verified",
		"Your task completion has been verified.")
	return completion, nil
}

func (s *service) Cancel(ctx context.Context, id, actorID uuid.UUID, reason string) (*TaskCompletion, error) {
	completion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(completion.Status, CompletionStatusCancelled) {
		return nil, NewTransitionError(completion.Status, CompletionStatusCancelled)
	}

	oldStatus := completion.Status
	updates := map[string]interface{}{
		"status": CompletionStatusCancelled,
	}

	if err := s.repo.SaveTransition(ctx, completion, oldStatus, updates, CounterDelta{}); err != nil {
		return nil, s.mapTransitionErr(ctx, id, CompletionStatusCancelled, err)
	}

	completion.Status = CompletionStatusCancelled

	s.afterTransition(ctx, completion, actorID, "completion_cancelled", oldStatus, map[string]interface{}{
		"reason": reason,
	})
	return completion, nil
}

// Resubmit creates a fresh pending completion for a rejected one,
// back-referencing it via previous_completion_id. The rejected row stays
// terminal for the uniqueness rule.
func (s *service) Resubmit(ctx context.Context, id, actorID uuid.UUID) (*TaskCompletion, error) {
	previous, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if previous.Status != CompletionStatusRejected {
		return nil, NewTransitionError(previous.Status, CompletionStatusPending)
	}

	replacement := &TaskCompletion{
		ID:                   uuid.New(),
		TaskID:               previous.TaskID,
		VolunteerID:          previous.VolunteerID,
		AssignmentID:         previous.AssignmentID,
		CompletionType:       previous.CompletionType,
		Status:               CompletionStatusPending,
		RequiresVerification: previous.RequiresVerification,
		RevisionCount:        previous.RevisionCount,
		PreviousCompletionID: &previous.ID,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}

	if err := s.repo.Create(ctx, replacement); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.RecordInput{
		ActorID:    actorID,
		Operation:  "completion_resubmitted",
		EntityType: "completion",
		EntityID:   replacement.ID,
		AfterState: string(CompletionStatusPending),
		Metadata: map[string]interface{}{
			"previous_completion_id": previous.ID.String(),
		},
	})
	s.publishEvent(ctx, actorID, replacement.ID, "completion_resubmitted")

	return replacement, nil
}

// reviewTransition covers the reviewer moves sharing the same shape:
// legality check, CAS save with optional counter delta, audit + event.
func (s *service) reviewTransition(ctx context.Context, id, actorID uuid.UUID, target CompletionStatus, operation string, extraUpdates map[string]interface{}, counter CounterDelta, notes string) (*TaskCompletion, error) {
	completion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(completion.Status, target) {
		return nil, NewTransitionError(completion.Status, target)
	}

	oldStatus := completion.Status
	updates := map[string]interface{}{
		"status": target,
	}
	for k, v := range extraUpdates {
		updates[k] = v
	}

	if err := s.repo.SaveTransition(ctx, completion, oldStatus, updates, counter); err != nil {
		return nil, s.mapTransitionErr(ctx, id, target, err)
	}

	completion.Status = target

	metadata := map[string]interface{}{}
	if notes != "" {
		metadata["notes"] = notes
	}
	s.afterTransition(ctx, completion, actorID, operation, oldStatus, metadata)
	return completion, nil
}

// mapTransitionErr translates a stale compare-and-swap into a
// TransitionError against the state the concurrent winner left behind.
func (s *service) mapTransitionErr(ctx context.Context, id uuid.UUID, attempted CompletionStatus, err error) error {
	if !errors.Is(err, ErrStaleTransition) {
		return err
	}
	fresh, findErr := s.repo.FindByID(ctx, id)
	if findErr != nil {
		return NewTransitionError("", attempted)
	}
	return NewTransitionError(fresh.Status, attempted)
}

func (s *service) afterTransition(ctx context.Context, c *TaskCompletion, actorID uuid.UUID, operation string, oldStatus CompletionStatus, metadata map[string]interface{}) {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadata["task_id"] = c.TaskID.String()
	metadata["volunteer_id"] = c.VolunteerID.String()

	s.recorder.Record(ctx, audit.RecordInput{
		ActorID:     actorID,
		Operation:   operation,
		EntityType:  "completion",
		EntityID:    c.ID,
		BeforeState: string(oldStatus),
		AfterState:  string(c.Status),
		Metadata:    metadata,
	})

	s.publishEvent(ctx, actorID, c.ID, operation)
}

func (s *service) publishEvent(ctx context.Context, actorID, entityID uuid.UUID, action string) {
	if s.redis == nil {
		return
	}
	event := &events.EngineEvent{
		EventType: events.EventTypeCompletionUpdate,
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

func (s *service) notify(ctx context.Context, c *TaskCompletion, typ notification.Type, title, content string) {
	if s.notifier == nil {
		return
	}
	data := map[string]string{
		"task_id":       c.TaskID.String(),
		"completion_id": c.ID.String(),
	}
	if err := s.notifier.NotifyVolunteer(ctx, c.VolunteerID, typ, title, content, data, "completion", c.ID); err != nil {
		s.logger.Warn("Failed to send completion notification",
			zap.String("completion_id", c.ID.String()),
			zap.Error(err))
	}
}
