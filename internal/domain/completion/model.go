package completion

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/task"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CompletionStatus string

const (
	CompletionStatusPending          CompletionStatus = "pending"
	CompletionStatusSubmitted        CompletionStatus = "submitted"
	CompletionStatusUnderReview      CompletionStatus = "under_review"
	CompletionStatusApproved         CompletionStatus = "approved"
	CompletionStatusRejected         CompletionStatus = "rejected"
	CompletionStatusRevisionRequired CompletionStatus = "revision_required"
	CompletionStatusVerified         CompletionStatus = "verified"
	CompletionStatusCancelled        CompletionStatus = "cancelled"
)

// Common errors
var (
	ErrCompletionNotFound = errors.New("completion not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateActive    = errors.New("an active completion already exists for this task and volunteer")
)

// TaskCompletion is one volunteer's attempt at one task. Rows are never
// physically deleted in normal operation; cancellation is a terminal
// state, not removal.
type TaskCompletion struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	TaskID         uuid.UUID  `json:"task_id" gorm:"type:uuid;not null;index:idx_completion_task"`
	VolunteerID    uuid.UUID  `json:"volunteer_id" gorm:"type:uuid;not null;index:idx_completion_volunteer"`
	AssignmentID   *uuid.UUID `json:"assignment_id,omitempty" gorm:"type:uuid"`

	CompletionType task.TaskType    `json:"completion_type" gorm:"type:varchar(20);not null"`
	Status         CompletionStatus `json:"status" gorm:"type:varchar(30);not null;default:'pending';index:idx_completion_status"`

	CompletionData datatypes.JSON `json:"completion_data,omitempty" gorm:"type:jsonb"`

	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	TimeStarted      *time.Time `json:"time_started,omitempty"`
	TimeSpentMinutes *int       `json:"time_spent_minutes,omitempty"`

	RequiresVerification bool       `json:"requires_verification" gorm:"not null;default:false"`
	VerifiedBy           *uuid.UUID `json:"verified_by,omitempty" gorm:"type:uuid"`
	VerifiedAt           *time.Time `json:"verified_at,omitempty"`
	VerificationNotes    string     `json:"verification_notes,omitempty"`
	QualityScore         *int       `json:"quality_score,omitempty"`

	ReviewNotes   string `json:"review_notes,omitempty"`
	RevisionCount int    `json:"revision_count" gorm:"not null;default:0"`
	RevisionNotes string `json:"revision_notes,omitempty"`

	PreviousCompletionID *uuid.UUID `json:"previous_completion_id,omitempty" gorm:"type:uuid"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:current_timestamp"`
}

// CompletionPayload is the free-form submission payload, decoded from the
// completion_data column. Only the fields matching the task type matter.
type CompletionPayload struct {
	Completed bool              `json:"completed,omitempty"`
	Photos    []string          `json:"photos,omitempty"`
	Text      string            `json:"text,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func (s CompletionStatus) IsValid() bool {
	switch s {
	case CompletionStatusPending, CompletionStatusSubmitted, CompletionStatusUnderReview,
		CompletionStatusApproved, CompletionStatusRejected, CompletionStatusRevisionRequired,
		CompletionStatusVerified, CompletionStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s CompletionStatus) IsTerminal() bool {
	return s == CompletionStatusVerified || s == CompletionStatusCancelled
}

// IsSatisfied reports whether the completion counts as done for
// prerequisite checks and completion-rate analytics
func (s CompletionStatus) IsSatisfied() bool {
	return s == CompletionStatusApproved || s == CompletionStatusVerified
}

// AllCompletionStatuses returns every status, in lifecycle order
func AllCompletionStatuses() []CompletionStatus {
	return []CompletionStatus{
		CompletionStatusPending, CompletionStatusSubmitted, CompletionStatusUnderReview,
		CompletionStatusApproved, CompletionStatusRejected, CompletionStatusRevisionRequired,
		CompletionStatusVerified, CompletionStatusCancelled,
	}
}

// TableName specifies the table name for the TaskCompletion model
func (TaskCompletion) TableName() string {
	return "task_completions"
}

// BeforeCreate is called before creating a new completion record
func (c *TaskCompletion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CompletionStatusPending
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	return c.Validate()
}

// Validate checks if the completion data is consistent
func (c *TaskCompletion) Validate() error {
	if c.TaskID == uuid.Nil || c.VolunteerID == uuid.Nil {
		return ErrInvalidInput
	}
	if !c.Status.IsValid() {
		return ErrInvalidInput
	}
	if !c.CompletionType.IsValid() {
		return ErrInvalidInput
	}
	if c.QualityScore != nil {
		if *c.QualityScore < 1 || *c.QualityScore > 5 {
			return ErrInvalidInput
		}
		if c.Status != CompletionStatusVerified && c.Status != CompletionStatusApproved {
			return ErrInvalidInput
		}
	}
	if c.Status == CompletionStatusVerified && c.VerifiedBy == nil {
		return ErrInvalidInput
	}
	return nil
}

// DecodePayload parses the stored completion data
func (c *TaskCompletion) DecodePayload() (CompletionPayload, error) {
	if len(c.CompletionData) == 0 {
		return CompletionPayload{}, nil
	}
	var payload CompletionPayload
	if err := json.Unmarshal(c.CompletionData, &payload); err != nil {
		return CompletionPayload{}, fmt.Errorf("%w: malformed completion data: %v", ErrInvalidInput, err)
	}
	return payload, nil
}

// Encode serializes a payload for the JSONB column
func (p CompletionPayload) Encode() (datatypes.JSON, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}
