package completion

import (
	"context"
	"errors"
	"time"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/task"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStaleTransition is returned when the compare-and-swap status update
// matched no row: a concurrent transition won the race. The service maps
// it to a TransitionError against the fresh state.
var ErrStaleTransition = errors.New("completion was modified concurrently")

const pgUniqueViolation = "23505"

// CounterDelta describes the task counter increments to apply atomically
// with a completion transition.
type CounterDelta struct {
	Total    int
	Verified int
}

// CompletionFilter defines filtering options for completions
type CompletionFilter struct {
	TaskID      *uuid.UUID
	VolunteerID *uuid.UUID
	Status      *CompletionStatus
	Statuses    []CompletionStatus
	Page        int
	PageSize    int
}

// Repository defines the interface for completion persistence operations
type Repository interface {
	Create(ctx context.Context, completion *TaskCompletion) error
	FindByID(ctx context.Context, id uuid.UUID) (*TaskCompletion, error)
	FindAll(ctx context.Context, filter CompletionFilter) ([]TaskCompletion, int64, error)

	// SaveTransition applies a status transition with compare-and-swap
	// semantics and, in the same transaction, any task counter deltas.
	SaveTransition(ctx context.Context, c *TaskCompletion, expected CompletionStatus, updates map[string]interface{}, counter CounterDelta) error

	// FindActive returns the non-terminal-failed completion for the pair,
	// if one exists. Rejected and cancelled rows do not count.
	FindActive(ctx context.Context, taskID, volunteerID uuid.UUID) (*TaskCompletion, error)

	// HasSatisfiedCompletion reports whether the volunteer holds an
	// approved or verified completion for the task.
	HasSatisfiedCompletion(ctx context.Context, taskID, volunteerID uuid.UUID) (bool, error)

	// FindPendingForTask lists pending completions, used by the due-date
	// reminder sweep.
	FindPendingForTask(ctx context.Context, taskID uuid.UUID) ([]TaskCompletion, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, completion *TaskCompletion) error {
	err := r.db.WithContext(ctx).Create(completion).Error
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return ErrDuplicateActive
		}
		return err
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*TaskCompletion, error) {
	var completion TaskCompletion
	result := r.db.WithContext(ctx).First(&completion, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCompletionNotFound
		}
		return nil, result.Error
	}
	return &completion, nil
}

func (r *repository) FindAll(ctx context.Context, filter CompletionFilter) ([]TaskCompletion, int64, error) {
	var completions []TaskCompletion
	var total int64

	query := r.db.WithContext(ctx).Model(&TaskCompletion{})

	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}
	if filter.VolunteerID != nil {
		query = query.Where("volunteer_id = ?", *filter.VolunteerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize == 0 {
		filter.PageSize = 100
	}

	err := query.Order("created_at DESC").
		Offset(filter.Page * filter.PageSize).
		Limit(filter.PageSize).
		Find(&completions).Error
	if err != nil {
		return nil, 0, err
	}

	return completions, total, nil
}

func (r *repository) SaveTransition(ctx context.Context, c *TaskCompletion, expected CompletionStatus, updates map[string]interface{}, counter CounterDelta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock serializes concurrent transitions on the same
		// completion; the status predicate below is the actual guard.
		var current TaskCompletion
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "id = ?", c.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCompletionNotFound
			}
			return err
		}

		if updates == nil {
			updates = map[string]interface{}{}
		}
		updates["updated_at"] = time.Now()

		result := tx.Model(&TaskCompletion{}).
			Where("id = ? AND status = ?", c.ID, expected).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleTransition
		}

		if counter.Total != 0 || counter.Verified != 0 {
			cols := map[string]interface{}{}
			if counter.Total != 0 {
				cols["total_completions"] = gorm.Expr("total_completions + ?", counter.Total)
			}
			if counter.Verified != 0 {
				cols["verified_completions"] = gorm.Expr("verified_completions + ?", counter.Verified)
			}
			if err := tx.Model(&task.Task{}).
				Where("id = ?", c.TaskID).
				UpdateColumns(cols).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *repository) FindActive(ctx context.Context, taskID, volunteerID uuid.UUID) (*TaskCompletion, error) {
	var completion TaskCompletion
	result := r.db.WithContext(ctx).
		Where("task_id = ? AND volunteer_id = ? AND status NOT IN ?",
			taskID, volunteerID,
			[]CompletionStatus{CompletionStatusRejected, CompletionStatusCancelled}).
		First(&completion)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCompletionNotFound
		}
		return nil, result.Error
	}
	return &completion, nil
}

func (r *repository) HasSatisfiedCompletion(ctx context.Context, taskID, volunteerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&TaskCompletion{}).
		Where("task_id = ? AND volunteer_id = ? AND status IN ?",
			taskID, volunteerID,
			[]CompletionStatus{CompletionStatusApproved, CompletionStatusVerified}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) FindPendingForTask(ctx context.Context, taskID uuid.UUID) ([]TaskCompletion, error) {
	var completions []TaskCompletion
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND status = ?", taskID, CompletionStatusPending).
		Find(&completions).Error
	if err != nil {
		return nil, err
	}
	return completions, nil
}
