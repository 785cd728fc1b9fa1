package task

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskType string

const (
	TaskTypeCheckbox TaskType = "checkbox"
	TaskTypePhoto    TaskType = "photo"
	TaskTypeText     TaskType = "text"
	TaskTypeCustom   TaskType = "custom"
)

type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "low"
	TaskPriorityNormal   TaskPriority = "normal"
	TaskPriorityHigh     TaskPriority = "high"
	TaskPriorityUrgent   TaskPriority = "urgent"
	TaskPriorityCritical TaskPriority = "critical"
)

type TaskStatus string

const (
	TaskStatusDraft     TaskStatus = "draft"
	TaskStatusActive    TaskStatus = "active"
	TaskStatusSuspended TaskStatus = "suspended"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusCancelled TaskStatus = "cancelled"
	TaskStatusArchived  TaskStatus = "archived"
)

// Common errors
var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidDates  = errors.New("start date must not be after due date")
	ErrCycleDetected = errors.New("prerequisite would create a cycle")
)

// Task represents a unit of volunteer work owned by a role within an event
type Task struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description"`
	TaskType    TaskType     `json:"task_type" gorm:"type:varchar(20);not null;default:'checkbox';index:idx_task_type"`
	Category    string       `json:"category" gorm:"type:varchar(100);index:idx_task_category"`
	Priority    TaskPriority `json:"priority" gorm:"type:varchar(20);not null;default:'normal';index:idx_task_priority"`
	Status      TaskStatus   `json:"status" gorm:"type:varchar(20);not null;default:'draft';index:idx_task_status"`

	IsMandatory          bool `json:"is_mandatory" gorm:"not null;default:false"`
	RequiresVerification bool `json:"requires_verification" gorm:"not null;default:false"`

	RoleID  uuid.UUID  `json:"role_id" gorm:"type:uuid;not null;index:idx_task_role"`
	EventID uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;index:idx_task_event"`
	VenueID *uuid.UUID `json:"venue_id,omitempty" gorm:"type:uuid"`

	StartDate time.Time  `json:"start_date" gorm:"not null;index:idx_task_dates"`
	DueDate   *time.Time `json:"due_date,omitempty" gorm:"index:idx_task_dates"`

	// Type-specific configuration, see configuration.go
	Configuration datatypes.JSON `json:"configuration" gorm:"type:jsonb;default:'{}'"`

	Tags pq.StringArray `json:"tags,omitempty" gorm:"type:text[]"`

	// Counters maintained by the completion workflow, incremented on
	// transition into approved/verified. Never recomputed by scan.
	TotalCompletions    int `json:"total_completions" gorm:"not null;default:0"`
	VerifiedCompletions int `json:"verified_completions" gorm:"not null;default:0"`

	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:current_timestamp"`
}

// TaskPrerequisite is one directed "must be completed before" edge.
// Edges live outside the Task aggregate so cycle detection and edge
// editing never touch task serialization.
type TaskPrerequisite struct {
	TaskID         uuid.UUID `json:"task_id" gorm:"type:uuid;primaryKey"`
	PrerequisiteID uuid.UUID `json:"prerequisite_id" gorm:"type:uuid;primaryKey"`
	CreatedBy      uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"not null;default:current_timestamp"`
}

func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeCheckbox, TaskTypePhoto, TaskTypeText, TaskTypeCustom:
		return true
	}
	return false
}

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityNormal, TaskPriorityHigh,
		TaskPriorityUrgent, TaskPriorityCritical:
		return true
	}
	return false
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusDraft, TaskStatusActive, TaskStatusSuspended,
		TaskStatusCompleted, TaskStatusCancelled, TaskStatusArchived:
		return true
	}
	return false
}

// AllTaskTypes returns every task type, in declaration order
func AllTaskTypes() []TaskType {
	return []TaskType{TaskTypeCheckbox, TaskTypePhoto, TaskTypeText, TaskTypeCustom}
}

// AllTaskPriorities returns every priority, in escalation order
func AllTaskPriorities() []TaskPriority {
	return []TaskPriority{TaskPriorityLow, TaskPriorityNormal, TaskPriorityHigh,
		TaskPriorityUrgent, TaskPriorityCritical}
}

// AllTaskStatuses returns every lifecycle status
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusDraft, TaskStatusActive, TaskStatusSuspended,
		TaskStatusCompleted, TaskStatusCancelled, TaskStatusArchived}
}

// TableName specifies the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}

// TableName specifies the table name for prerequisite edges
func (TaskPrerequisite) TableName() string {
	return "task_prerequisites"
}

// Validate checks if the task data is valid
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrInvalidInput
	}
	if !t.TaskType.IsValid() {
		return ErrInvalidInput
	}
	if !t.Status.IsValid() {
		return ErrInvalidInput
	}
	if !t.Priority.IsValid() {
		return ErrInvalidInput
	}
	if t.RoleID == uuid.Nil || t.EventID == uuid.Nil {
		return ErrInvalidInput
	}
	if t.CreatedBy == uuid.Nil {
		return ErrInvalidInput
	}
	if t.DueDate != nil && t.StartDate.After(*t.DueDate) {
		return ErrInvalidDates
	}
	if t.VerifiedCompletions > t.TotalCompletions {
		return ErrInvalidInput
	}
	return nil
}

// BeforeCreate is called before creating a new task record
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TaskStatusDraft
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityNormal
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	return t.Validate()
}

// BeforeUpdate is called before updating a task record
func (t *Task) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return nil
}
