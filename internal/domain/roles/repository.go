package roles

import (
	"context"
	"errors"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for role persistence operations
type Repository interface {
	CreateRole(ctx context.Context, role *Role) error
	FindRoleByID(ctx context.Context, id uuid.UUID) (*Role, error)
	FindRolesByEvent(ctx context.Context, eventID uuid.UUID) ([]Role, error)

	CreateAssignment(ctx context.Context, assignment *RoleAssignment) error
	FindAssignment(ctx context.Context, roleID, volunteerID uuid.UUID) (*RoleAssignment, error)
	UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status AssignmentStatus) error

	// ConfirmedVolunteerIDs lists every volunteer holding a confirmed
	// assignment for the role, used by auto-assignment.
	ConfirmedVolunteerIDs(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error)
	IsConfirmedMember(ctx context.Context, roleID, volunteerID uuid.UUID) (bool, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRole(ctx context.Context, role *Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *repository) FindRoleByID(ctx context.Context, id uuid.UUID) (*Role, error) {
	var role Role
	result := r.db.WithContext(ctx).First(&role, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}
	return &role, nil
}

func (r *repository) FindRolesByEvent(ctx context.Context, eventID uuid.UUID) ([]Role, error) {
	var result []Role
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("name ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *repository) CreateAssignment(ctx context.Context, assignment *RoleAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *repository) FindAssignment(ctx context.Context, roleID, volunteerID uuid.UUID) (*RoleAssignment, error) {
	var assignment RoleAssignment
	result := r.db.WithContext(ctx).
		Where("role_id = ? AND volunteer_id = ?", roleID, volunteerID).
		Order("created_at DESC").
		First(&assignment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, result.Error
	}
	return &assignment, nil
}

func (r *repository) UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status AssignmentStatus) error {
	result := r.db.WithContext(ctx).Model(&RoleAssignment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": gorm.Expr("current_timestamp")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

func (r *repository) ConfirmedVolunteerIDs(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&RoleAssignment{}).
		Where("role_id = ? AND status = ?", roleID, AssignmentStatusConfirmed).
		Order("created_at ASC").
		Pluck("volunteer_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) IsConfirmedMember(ctx context.Context, roleID, volunteerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&RoleAssignment{}).
		Where("role_id = ? AND volunteer_id = ? AND status = ?",
			roleID, volunteerID, AssignmentStatusConfirmed).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
