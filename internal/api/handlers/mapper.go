package handlers

import (
	"encoding/json"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/dto"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/assignment"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/completion"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/roles"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/task"
)

// TaskToResponse converts a task domain model to its API representation
func TaskToResponse(t *task.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:                   t.ID,
		Title:                t.Title,
		Description:          t.Description,
		TaskType:             string(t.TaskType),
		Category:             t.Category,
		Priority:             string(t.Priority),
		Status:               string(t.Status),
		IsMandatory:          t.IsMandatory,
		RequiresVerification: t.RequiresVerification,
		RoleID:               t.RoleID,
		EventID:              t.EventID,
		VenueID:              t.VenueID,
		StartDate:            t.StartDate,
		DueDate:              t.DueDate,
		Tags:                 []string(t.Tags),
		TotalCompletions:     t.TotalCompletions,
		VerifiedCompletions:  t.VerifiedCompletions,
		CreatedBy:            t.CreatedBy,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

// CompletionToResponse converts a completion domain model to its API
// representation. The JSONB payload is surfaced as decoded JSON.
func CompletionToResponse(c *completion.TaskCompletion) dto.CompletionResponse {
	var data interface{}
	if len(c.CompletionData) > 0 {
		_ = json.Unmarshal(c.CompletionData, &data)
	}
	return dto.CompletionResponse{
		ID:                   c.ID,
		TaskID:               c.TaskID,
		VolunteerID:          c.VolunteerID,
		CompletionType:       string(c.CompletionType),
		Status:               string(c.Status),
		CompletionData:       data,
		SubmittedAt:          c.SubmittedAt,
		CompletedAt:          c.CompletedAt,
		TimeStarted:          c.TimeStarted,
		TimeSpentMinutes:     c.TimeSpentMinutes,
		RequiresVerification: c.RequiresVerification,
		VerifiedBy:           c.VerifiedBy,
		VerifiedAt:           c.VerifiedAt,
		VerificationNotes:    c.VerificationNotes,
		QualityScore:         c.QualityScore,
		ReviewNotes:          c.ReviewNotes,
		RevisionCount:        c.RevisionCount,
		RevisionNotes:        c.RevisionNotes,
		PreviousCompletionID: c.PreviousCompletionID,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

// RoleToResponse converts a role domain model to its API representation
func RoleToResponse(r *roles.Role) dto.RoleResponse {
	return dto.RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		EventID:     r.EventID,
		VenueID:     r.VenueID,
		Capacity:    r.Capacity,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
	}
}

// RoleAssignmentToResponse converts a role membership to its API
// representation
func RoleAssignmentToResponse(a *roles.RoleAssignment) dto.RoleAssignmentResponse {
	return dto.RoleAssignmentResponse{
		ID:          a.ID,
		RoleID:      a.RoleID,
		VolunteerID: a.VolunteerID,
		Status:      string(a.Status),
		ConfirmedAt: a.ConfirmedAt,
		CreatedAt:   a.CreatedAt,
	}
}

// BulkResultToResponse converts a bulk assignment result to its API
// representation
func BulkResultToResponse(result *assignment.BulkAssignResult) dto.BulkAssignResponse {
	failures := make([]dto.AssignmentFailure, 0, len(result.Failures))
	for _, f := range result.Failures {
		failures = append(failures, dto.AssignmentFailure{
			TaskID:      f.TaskID,
			VolunteerID: f.VolunteerID,
			Reason:      f.Reason,
		})
	}
	return dto.BulkAssignResponse{
		TotalAttempted:  result.TotalAttempted,
		TotalSuccessful: result.TotalSuccessful,
		TotalFailed:     result.TotalFailed,
		Assigned:        result.Assigned,
		Failures:        failures,
	}
}
