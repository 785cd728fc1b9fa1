package task

import (
	"context"
	"errors"
	"time"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var ErrPrerequisiteExists = errors.New("prerequisite edge already exists")

const pgUniqueViolation = "23505"

// TaskFilter defines filtering options for tasks
type TaskFilter struct {
	EventID      *uuid.UUID
	RoleID       *uuid.UUID
	VenueID      *uuid.UUID
	Status       *TaskStatus
	TaskType     *TaskType
	Priority     *TaskPriority
	Category     *string
	IsMandatory  *bool
	DueDateStart *time.Time
	DueDateEnd   *time.Time
	Page         int
	PageSize     int
}

// TaskRepository defines the interface for task persistence operations
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindAll(ctx context.Context, filter TaskFilter) ([]Task, int64, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Prerequisite edge operations
	AddPrerequisite(ctx context.Context, edge *TaskPrerequisite) error
	RemovePrerequisite(ctx context.Context, taskID, prerequisiteID uuid.UUID) error
	Prerequisites(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error)
	Dependents(ctx context.Context, prerequisiteID uuid.UUID) ([]uuid.UUID, error)

	// FindDueSoon lists active tasks whose due date falls inside the window
	FindDueSoon(ctx context.Context, window time.Duration) ([]Task, error)
}

type taskRepository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	var task Task
	result := r.db.WithContext(ctx).First(&task, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter TaskFilter) ([]Task, int64, error) {
	var tasks []Task
	var total int64

	query := r.db.WithContext(ctx)

	if filter.EventID != nil {
		query = query.Where("event_id = ?", filter.EventID)
	}
	if filter.RoleID != nil {
		query = query.Where("role_id = ?", filter.RoleID)
	}
	if filter.VenueID != nil {
		query = query.Where("venue_id = ?", filter.VenueID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TaskType != nil {
		query = query.Where("task_type = ?", filter.TaskType)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.IsMandatory != nil {
		query = query.Where("is_mandatory = ?", *filter.IsMandatory)
	}
	if filter.DueDateStart != nil {
		query = query.Where("due_date >= ?", *filter.DueDateStart)
	}
	if filter.DueDateEnd != nil {
		query = query.Where("due_date < ?", *filter.DueDateEnd)
	}

	// Count total before pagination
	err := query.Model(&Task{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	if filter.PageSize == 0 {
		filter.PageSize = 100
	}

	query = query.Offset(filter.Page * filter.PageSize).Limit(filter.PageSize)

	if err := query.Order("priority DESC, due_date ASC NULLS LAST").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *taskRepository) Update(ctx context.Context, task *Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) AddPrerequisite(ctx context.Context, edge *TaskPrerequisite) error {
	err := r.db.WithContext(ctx).Create(edge).Error
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return ErrPrerequisiteExists
		}
		return err
	}
	return nil
}

func (r *taskRepository) RemovePrerequisite(ctx context.Context, taskID, prerequisiteID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("task_id = ? AND prerequisite_id = ?", taskID, prerequisiteID).
		Delete(&TaskPrerequisite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Prerequisites(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&TaskPrerequisite{}).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Pluck("prerequisite_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *taskRepository) Dependents(ctx context.Context, prerequisiteID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&TaskPrerequisite{}).
		Where("prerequisite_id = ?", prerequisiteID).
		Pluck("task_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *taskRepository) FindDueSoon(ctx context.Context, window time.Duration) ([]Task, error) {
	var tasks []Task
	now := time.Now()
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date IS NOT NULL AND due_date BETWEEN ? AND ?",
			TaskStatusActive, now, now.Add(window)).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
