package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateRoleRequest represents the request body for creating a role
type CreateRoleRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	EventID     uuid.UUID  `json:"event_id" binding:"required"`
	VenueID     *uuid.UUID `json:"venue_id,omitempty"`
	Capacity    int        `json:"capacity"`
}

// AssignVolunteerRequest adds a volunteer to a role
type AssignVolunteerRequest struct {
	VolunteerID uuid.UUID `json:"volunteer_id" binding:"required"`
}

// RoleResponse represents a role in API responses
type RoleResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	EventID     uuid.UUID  `json:"event_id"`
	VenueID     *uuid.UUID `json:"venue_id,omitempty"`
	Capacity    int        `json:"capacity"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
}

// RoleAssignmentResponse represents a role membership in API responses
type RoleAssignmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	RoleID      uuid.UUID  `json:"role_id"`
	VolunteerID uuid.UUID  `json:"volunteer_id"`
	Status      string     `json:"status"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
