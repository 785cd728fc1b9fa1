package dto

import (
	"time"

	"github.com/google/uuid"
)

// SubmitCompletionRequest carries the volunteer's submission payload.
// Only the fields matching the task type are read.
type SubmitCompletionRequest struct {
	Completed        bool              `json:"completed,omitempty"`
	Photos           []string          `json:"photos,omitempty"`
	Text             string            `json:"text,omitempty"`
	Fields           map[string]string `json:"fields,omitempty"`
	TimeSpentMinutes *int              `json:"time_spent_minutes,omitempty"`
}

// ReviewNotesRequest carries optional reviewer notes
type ReviewNotesRequest struct {
	Notes string `json:"notes"`
}

// RejectCompletionRequest requires a reason
type RejectCompletionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// VerifyCompletionRequest carries the verification outcome
type VerifyCompletionRequest struct {
	QualityScore int    `json:"quality_score" binding:"required"`
	Notes        string `json:"notes"`
}

// CancelCompletionRequest carries an optional cancellation reason
type CancelCompletionRequest struct {
	Reason string `json:"reason"`
}

// CompletionResponse represents a completion in API responses
type CompletionResponse struct {
	ID                   uuid.UUID   `json:"id"`
	TaskID               uuid.UUID   `json:"task_id"`
	VolunteerID          uuid.UUID   `json:"volunteer_id"`
	CompletionType       string      `json:"completion_type"`
	Status               string      `json:"status"`
	CompletionData       interface{} `json:"completion_data,omitempty"`
	SubmittedAt          *time.Time  `json:"submitted_at,omitempty"`
	CompletedAt          *time.Time  `json:"completed_at,omitempty"`
	TimeStarted          *time.Time  `json:"time_started,omitempty"`
	TimeSpentMinutes     *int        `json:"time_spent_minutes,omitempty"`
	RequiresVerification bool        `json:"requires_verification"`
	VerifiedBy           *uuid.UUID  `json:"verified_by,omitempty"`
	VerifiedAt           *time.Time  `json:"verified_at,omitempty"`
	VerificationNotes    string      `json:"verification_notes,omitempty"`
	QualityScore         *int        `json:"quality_score,omitempty"`
	ReviewNotes          string      `json:"review_notes,omitempty"`
	RevisionCount        int         `json:"revision_count"`
	RevisionNotes        string      `json:"revision_notes,omitempty"`
	PreviousCompletionID *uuid.UUID  `json:"previous_completion_id,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// CompletionListResponse represents a paginated list of completions
type CompletionListResponse struct {
	Completions []CompletionResponse `json:"completions"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
}
