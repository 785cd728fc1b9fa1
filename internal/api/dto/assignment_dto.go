package dto

import "github.com/google/uuid"

// AssignTaskRequest assigns one task to one volunteer
type AssignTaskRequest struct {
	TaskID      uuid.UUID `json:"task_id" binding:"required"`
	VolunteerID uuid.UUID `json:"volunteer_id" binding:"required"`
}

// BulkAssignRequest assigns the cross product of tasks and volunteers
type BulkAssignRequest struct {
	TaskIDs      []uuid.UUID `json:"task_ids" binding:"required,min=1"`
	VolunteerIDs []uuid.UUID `json:"volunteer_ids" binding:"required,min=1"`
}

// AssignmentFailure reports one failed task/volunteer pair
type AssignmentFailure struct {
	TaskID      uuid.UUID `json:"task_id"`
	VolunteerID uuid.UUID `json:"volunteer_id"`
	Reason      string    `json:"reason"`
}

// BulkAssignResponse summarizes a bulk or auto assignment run
type BulkAssignResponse struct {
	TotalAttempted  int                 `json:"total_attempted"`
	TotalSuccessful int                 `json:"total_successful"`
	TotalFailed     int                 `json:"total_failed"`
	Assigned        []uuid.UUID         `json:"assigned_completion_ids"`
	Failures        []AssignmentFailure `json:"failures,omitempty"`
}
