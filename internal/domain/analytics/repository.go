package analytics

import (
	"context"
	"time"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/completion"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope restricts an aggregation to a task, a role, a volunteer, or any
// combination. An empty scope covers everything.
type Scope struct {
	TaskID      *uuid.UUID
	RoleID      *uuid.UUID
	VolunteerID *uuid.UUID
}

type statusCount struct {
	Status completion.CompletionStatus
	Count  int64
}

type labelCount struct {
	Label string
	Count int64
}

// Repository reads aggregate figures straight from the completions and
// tasks tables. Reads only; analytics never mutates engine state.
type Repository interface {
	CountByStatus(ctx context.Context, scope Scope) (map[completion.CompletionStatus]int64, error)
	CountByTaskType(ctx context.Context, scope Scope) (map[string]int64, error)
	CountByPriority(ctx context.Context, scope Scope) (map[string]int64, error)

	// AverageCompletionMinutes averages time_spent_minutes over satisfied
	// completions, falling back to completed_at - time_started where the
	// explicit figure is absent. Nil when no row has either.
	AverageCompletionMinutes(ctx context.Context, scope Scope) (*float64, error)

	// CountOverdue counts unfinished completions on tasks whose due date
	// has passed.
	CountOverdue(ctx context.Context, scope Scope) (int64, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

// scoped applies the scope filters. Role scoping joins through tasks
// since completions do not carry the role directly.
func (r *repository) scoped(ctx context.Context, scope Scope) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&completion.TaskCompletion{})

	if scope.RoleID != nil {
		query = query.Joins("JOIN tasks ON tasks.id = task_completions.task_id").
			Where("tasks.role_id = ?", *scope.RoleID)
	}
	if scope.TaskID != nil {
		query = query.Where("task_completions.task_id = ?", *scope.TaskID)
	}
	if scope.VolunteerID != nil {
		query = query.Where("task_completions.volunteer_id = ?", *scope.VolunteerID)
	}
	return query
}

func (r *repository) CountByStatus(ctx context.Context, scope Scope) (map[completion.CompletionStatus]int64, error) {
	var rows []statusCount
	err := r.scoped(ctx, scope).
		Select("task_completions.status AS status, COUNT(*) AS count").
		Group("task_completions.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[completion.CompletionStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repository) CountByTaskType(ctx context.Context, scope Scope) (map[string]int64, error) {
	var rows []labelCount
	err := r.scoped(ctx, scope).
		Select("task_completions.completion_type AS label, COUNT(*) AS count").
		Group("task_completions.completion_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toMap(rows), nil
}

func (r *repository) CountByPriority(ctx context.Context, scope Scope) (map[string]int64, error) {
	query := r.scoped(ctx, scope)
	if scope.RoleID == nil {
		query = query.Joins("JOIN tasks ON tasks.id = task_completions.task_id")
	}
	var rows []labelCount
	err := query.
		Select("tasks.priority AS label, COUNT(*) AS count").
		Group("tasks.priority").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toMap(rows), nil
}

func (r *repository) AverageCompletionMinutes(ctx context.Context, scope Scope) (*float64, error) {
	var avg *float64
	err := r.scoped(ctx, scope).
		Where("task_completions.status IN ?", []completion.CompletionStatus{
			completion.CompletionStatusApproved, completion.CompletionStatusVerified,
		}).
		Select(`AVG(COALESCE(
			task_completions.time_spent_minutes::float8,
			EXTRACT(EPOCH FROM (task_completions.completed_at - task_completions.time_started)) / 60
		))`).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	return avg, nil
}

func (r *repository) CountOverdue(ctx context.Context, scope Scope) (int64, error) {
	query := r.scoped(ctx, scope)
	if scope.RoleID == nil {
		query = query.Joins("JOIN tasks ON tasks.id = task_completions.task_id")
	}
	var count int64
	err := query.
		Where("task_completions.status IN ?", []completion.CompletionStatus{
			completion.CompletionStatusPending, completion.CompletionStatusSubmitted,
			completion.CompletionStatusUnderReview, completion.CompletionStatusRevisionRequired,
		}).
		Where("tasks.due_date IS NOT NULL AND tasks.due_date < ?", time.Now()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func toMap(rows []labelCount) map[string]int64 {
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Label] = row.Count
	}
	return counts
}
