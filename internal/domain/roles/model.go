package roles

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusConfirmed AssignmentStatus = "confirmed"
	AssignmentStatusDeclined  AssignmentStatus = "declined"
	AssignmentStatusRevoked   AssignmentStatus = "revoked"
)

// Common errors
var (
	ErrRoleNotFound       = errors.New("role not found")
	ErrAssignmentNotFound = errors.New("role assignment not found")
	ErrInvalidInput       = errors.New("invalid input")
)

// Role is a volunteer role within an event, the unit tasks are scoped to
type Role struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	EventID     uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index:idx_role_event"`
	VenueID     *uuid.UUID `json:"venue_id,omitempty" gorm:"type:uuid"`
	Capacity    int       `json:"capacity" gorm:"not null;default:0"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;default:current_timestamp"`
}

// RoleAssignment ties a volunteer to a role. Only confirmed assignments
// make the volunteer eligible for the role's tasks.
type RoleAssignment struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	RoleID      uuid.UUID        `json:"role_id" gorm:"type:uuid;not null;index:idx_role_assignment_role"`
	VolunteerID uuid.UUID        `json:"volunteer_id" gorm:"type:uuid;not null;index:idx_role_assignment_volunteer"`
	Status      AssignmentStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	AssignedBy  uuid.UUID        `json:"assigned_by" gorm:"type:uuid"`
	ConfirmedAt *time.Time       `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt   time.Time        `json:"updated_at" gorm:"not null;default:current_timestamp"`
}

func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusPending, AssignmentStatusConfirmed, AssignmentStatusDeclined, AssignmentStatusRevoked:
		return true
	}
	return false
}

// TableName specifies the table name for the Role model
func (Role) TableName() string {
	return "roles"
}

// TableName specifies the table name for the RoleAssignment model
func (RoleAssignment) TableName() string {
	return "role_assignments"
}

// BeforeCreate is called before creating a new role record
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	if r.Name == "" || r.EventID == uuid.Nil {
		return ErrInvalidInput
	}
	return nil
}

// BeforeCreate is called before creating a new role assignment record
func (a *RoleAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AssignmentStatusPending
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	if a.RoleID == uuid.Nil || a.VolunteerID == uuid.Nil {
		return ErrInvalidInput
	}
	return nil
}
