package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateTaskRequest represents the request body for creating a task
type CreateTaskRequest struct {
	Title                string            `json:"title" binding:"required"`
	Description          string            `json:"description"`
	TaskType             string            `json:"task_type"`
	Category             string            `json:"category"`
	Priority             string            `json:"priority"`
	IsMandatory          bool              `json:"is_mandatory"`
	RequiresVerification bool              `json:"requires_verification"`
	RoleID               uuid.UUID         `json:"role_id" binding:"required"`
	EventID              uuid.UUID         `json:"event_id" binding:"required"`
	VenueID              *uuid.UUID        `json:"venue_id,omitempty"`
	StartDate            time.Time         `json:"start_date" binding:"required"`
	DueDate              *time.Time        `json:"due_date,omitempty"`
	Configuration        *TaskConfigInput  `json:"configuration,omitempty"`
	Tags                 []string          `json:"tags,omitempty"`
}

// UpdateTaskRequest represents the request body for updating a task
type UpdateTaskRequest struct {
	Title                *string          `json:"title,omitempty"`
	Description          *string          `json:"description,omitempty"`
	Category             *string          `json:"category,omitempty"`
	Priority             *string          `json:"priority,omitempty"`
	IsMandatory          *bool            `json:"is_mandatory,omitempty"`
	RequiresVerification *bool            `json:"requires_verification,omitempty"`
	StartDate            *time.Time       `json:"start_date,omitempty"`
	DueDate              *time.Time       `json:"due_date,omitempty"`
	Configuration        *TaskConfigInput `json:"configuration,omitempty"`
	Tags                 []string         `json:"tags,omitempty"`
}

// UpdateTaskStatusRequest represents a task status change
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AddPrerequisiteRequest represents adding a prerequisite edge
type AddPrerequisiteRequest struct {
	PrerequisiteID uuid.UUID `json:"prerequisite_id" binding:"required"`
}

// TaskConfigInput mirrors the per-type completion rules
type TaskConfigInput struct {
	Photo  *PhotoConfigInput  `json:"photo,omitempty"`
	Text   *TextConfigInput   `json:"text,omitempty"`
	Custom *CustomConfigInput `json:"custom,omitempty"`
}

type PhotoConfigInput struct {
	MinPhotos int `json:"min_photos"`
	MaxPhotos int `json:"max_photos"`
}

type TextConfigInput struct {
	MinLength int `json:"min_length"`
	MaxLength int `json:"max_length"`
}

type CustomConfigInput struct {
	RequiredFields []string `json:"required_fields"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID                   uuid.UUID  `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	TaskType             string     `json:"task_type"`
	Category             string     `json:"category,omitempty"`
	Priority             string     `json:"priority"`
	Status               string     `json:"status"`
	IsMandatory          bool       `json:"is_mandatory"`
	RequiresVerification bool       `json:"requires_verification"`
	RoleID               uuid.UUID  `json:"role_id"`
	EventID              uuid.UUID  `json:"event_id"`
	VenueID              *uuid.UUID `json:"venue_id,omitempty"`
	StartDate            time.Time  `json:"start_date"`
	DueDate              *time.Time `json:"due_date,omitempty"`
	Tags                 []string   `json:"tags,omitempty"`
	TotalCompletions     int        `json:"total_completions"`
	VerifiedCompletions  int        `json:"verified_completions"`
	CreatedBy            uuid.UUID  `json:"created_by"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks    []TaskResponse `json:"tasks"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}
