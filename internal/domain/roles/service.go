package roles

import (
	"context"
	"time"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/audit"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateRole(ctx context.Context, input CreateRoleInput, actorID uuid.UUID) (*Role, error)
	GetRole(ctx context.Context, id uuid.UUID) (*Role, error)
	ListRolesByEvent(ctx context.Context, eventID uuid.UUID) ([]Role, error)

	AssignVolunteer(ctx context.Context, roleID, volunteerID, actorID uuid.UUID) (*RoleAssignment, error)
	ConfirmAssignment(ctx context.Context, roleID, volunteerID uuid.UUID) (*RoleAssignment, error)
	DeclineAssignment(ctx context.Context, roleID, volunteerID uuid.UUID) (*RoleAssignment, error)

	IsConfirmedMember(ctx context.Context, roleID, volunteerID uuid.UUID) (bool, error)
	ConfirmedVolunteerIDs(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error)
}

type CreateRoleInput struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	EventID     uuid.UUID  `json:"event_id" binding:"required"`
	VenueID     *uuid.UUID `json:"venue_id"`
	Capacity    int        `json:"capacity"`
}

type service struct {
	repo     Repository
	recorder audit.Recorder
	logger   *zap.Logger
}

func NewService(repo Repository, recorder audit.Recorder, logger *zap.Logger) Service {
	return &service{repo: repo, recorder: recorder, logger: logger}
}

func (s *service) CreateRole(ctx context.Context, input CreateRoleInput, actorID uuid.UUID) (*Role, error) {
	if input.Name == "" || input.EventID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	role := &Role{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		EventID:     input.EventID,
		VenueID:     input.VenueID,
		Capacity:    input.Capacity,
		IsActive:    true,
	}
	if err := s.repo.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.RecordInput{
		ActorID:    actorID,
		Operation:  "role_created",
		EntityType: "role",
		EntityID:   role.ID,
		Metadata:   map[string]interface{}{"name": role.Name, "event_id": role.EventID.String()},
	})
	return role, nil
}

func (s *service) GetRole(ctx context.Context, id uuid.UUID) (*Role, error) {
	return s.repo.FindRoleByID(ctx, id)
}

func (s *service) ListRolesByEvent(ctx context.Context, eventID uuid.UUID) ([]Role, error) {
	return s.repo.FindRolesByEvent(ctx, eventID)
}

func (s *service) AssignVolunteer(ctx context.Context, roleID, volunteerID, actorID uuid.UUID) (*RoleAssignment, error) {
	if _, err := s.repo.FindRoleByID(ctx, roleID); err != nil {
		return nil, err
	}
	assignment := &RoleAssignment{
		ID:          uuid.New(),
		RoleID:      roleID,
		VolunteerID: volunteerID,
		Status:      AssignmentStatusPending,
		AssignedBy:  actorID,
	}
	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.RecordInput{
		ActorID:    actorID,
		Operation:  "role_volunteer_assigned",
		EntityType: "role_assignment",
		EntityID:   assignment.ID,
		AfterState: string(AssignmentStatusPending),
		Metadata: map[string]interface{}{
			"role_id":      roleID.String(),
			"volunteer_id": volunteerID.String(),
		},
	})
	return assignment, nil
}

func (s *service) ConfirmAssignment(ctx context.Context, roleID, volunteerID uuid.UUID) (*RoleAssignment, error) {
	return s.resolveAssignment(ctx, roleID, volunteerID, AssignmentStatusConfirmed)
}

func (s *service) DeclineAssignment(ctx context.Context, roleID, volunteerID uuid.UUID) (*RoleAssignment, error) {
	return s.resolveAssignment(ctx, roleID, volunteerID, AssignmentStatusDeclined)
}

func (s *service) resolveAssignment(ctx context.Context, roleID, volunteerID uuid.UUID, status AssignmentStatus) (*RoleAssignment, error) {
	assignment, err := s.repo.FindAssignment(ctx, roleID, volunteerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateAssignmentStatus(ctx, assignment.ID, status); err != nil {
		return nil, err
	}
	before := assignment.Status
	assignment.Status = status
	if status == AssignmentStatusConfirmed {
		now := time.Now()
		assignment.ConfirmedAt = &now
	}
	s.recorder.Record(ctx, audit.RecordInput{
		ActorID:     volunteerID,
		Operation:   "role_assignment_" + string(status),
		EntityType:  "role_assignment",
		EntityID:    assignment.ID,
		BeforeState: string(before),
		AfterState:  string(status),
	})
	return assignment, nil
}

func (s *service) IsConfirmedMember(ctx context.Context, roleID, volunteerID uuid.UUID) (bool, error) {
	return s.repo.IsConfirmedMember(ctx, roleID, volunteerID)
}

func (s *service) ConfirmedVolunteerIDs(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ConfirmedVolunteerIDs(ctx, roleID)
}
