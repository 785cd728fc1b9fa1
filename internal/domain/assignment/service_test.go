package assignment

import (
	"context"
	"errors"
	"testing"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/audit"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/completion"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/notification"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, audit.RecordInput) {}

type noopNotifier struct{}

func (noopNotifier) NotifyVolunteer(context.Context, uuid.UUID, notification.Type, string, string, map[string]string, string, uuid.UUID) error {
	return nil
}

type stubTasks struct {
	tasks   map[uuid.UUID]*task.Task
	missing map[uuid.UUID][]uuid.UUID // volunteer -> missing prereq ids
}

func (s *stubTasks) GetTask(_ context.Context, id uuid.UUID) (*task.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, task.ErrTaskNotFound
	}
	return t, nil
}

func (s *stubTasks) PrerequisitesSatisfied(_ context.Context, _, volunteerID uuid.UUID) (bool, []uuid.UUID, error) {
	missing := s.missing[volunteerID]
	return len(missing) == 0, missing, nil
}

type stubCompletions struct {
	created []*completion.TaskCompletion
	active  map[string]bool // taskID+volunteerID
	failOn  map[string]error
}

func pairKey(taskID, volunteerID uuid.UUID) string {
	return taskID.String() + ":" + volunteerID.String()
}

func (s *stubCompletions) Create(_ context.Context, c *completion.TaskCompletion) error {
	if err, ok := s.failOn[pairKey(c.TaskID, c.VolunteerID)]; ok {
		return err
	}
	s.created = append(s.created, c)
	return nil
}

func (s *stubCompletions) FindActive(_ context.Context, taskID, volunteerID uuid.UUID) (*completion.TaskCompletion, error) {
	if s.active[pairKey(taskID, volunteerID)] {
		return &completion.TaskCompletion{
			ID:          uuid.New(),
			TaskID:      taskID,
			VolunteerID: volunteerID,
			Status:      completion.CompletionStatusPending,
		}, nil
	}
	return nil, completion.ErrCompletionNotFound
}

type stubMembership struct {
	members map[uuid.UUID][]uuid.UUID // roleID -> confirmed volunteers
}

func (s *stubMembership) IsConfirmedMember(_ context.Context, roleID, volunteerID uuid.UUID) (bool, error) {
	for _, id := range s.members[roleID] {
		if id == volunteerID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubMembership) ConfirmedVolunteerIDs(_ context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	return s.members[roleID], nil
}

func activeTask(roleID uuid.UUID) *task.Task {
	return &task.Task{
		ID:                   uuid.New(),
		Title:                "Venue safety briefing",
		TaskType:             task.TaskTypeCheckbox,
		Status:               task.TaskStatusActive,
		RequiresVerification: true,
		RoleID:               roleID,
	}
}

func newService(tasks *stubTasks, completions *stubCompletions, membership *stubMembership) Service {
	return NewService(tasks, completions, membership, noopRecorder{}, noopNotifier{}, nil, zap.NewNop())
}

func TestAssignToVolunteerCreatesPendingCompletion(t *testing.T) {
	roleID := uuid.New()
	volunteer := uuid.New()
	tk := activeTask(roleID)

	tasks := &stubTasks{tasks: map[uuid.UUID]*task.Task{tk.ID: tk}}
	completions := &stubCompletions{}
	membership := &stubMembership{members: map[uuid.UUID][]uuid.UUID{roleID: {volunteer}}}

	svc := newService(tasks, completions, membership)
	c, err := svc.AssignToVolunteer(context.Background(), tk.ID, volunteer, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, completion.CompletionStatusPending, c.Status)
	assert.Equal(t, tk.TaskType, c.CompletionType)
	assert.True(t, c.RequiresVerification, "must inherit requires_verification from the task")
	require.Len(t, completions.created, 1)
}

func TestAssignToInactiveTask(t *testing.T) {
	roleID := uuid.New()
	volunteer := uuid.New()
	tk := activeTask(roleID)
	tk.Status = task.TaskStatusDraft

	tasks := &stubTasks{tasks: map[uuid.UUID]*task.Task{tk.ID: tk}}
	membership := &stubMembership{members: map[uuid.UUID][]uuid.UUID{roleID: {volunteer}}}

	svc := newService(tasks, &stubCompletions{}, membership)
	_, err := svc.AssignToVolunteer(context.Background(), tk.ID, volunteer, uuid.New())

	assert.ErrorIs(t, err, ErrNotEligible)
	var assignErr *AssignmentError
	require.ErrorAs(t, err, &assignErr)
	assert.Equal(t, tk.ID, assignErr.TaskID)
	assert.Equal(t, volunteer, assignErr.VolunteerID)
}

func TestAssignToNonMember(t *testing.T) {
	roleID := uuid.New()
	tk := activeTask(roleID)

	tasks := &stubTasks{tasks: map[uuid.UUID]*task.Task{tk.ID: tk}}
	membership := &stubMembership{members: map[uuid.UUID][]uuid.UUID{}}

	svc := newService(tasks, &stubCompletions{}, membership)
	_, err := svc.AssignToVolunteer(context.Background(), tk.ID, uuid.New(), uuid.New())

	assert.ErrorIs(t, err, ErrNotEligible)
}

func TestAssignAlreadyAssigned(t *testing.T) {
	roleID := uuid.New()
	volunteer := uuid.New()
	tk := activeTask(roleID)

	tasks := &stubTasks{tasks: map[uuid.UUID]*task.Task{tk.ID: tk}}
	completions := &stubCompletions{active: map[string]bool{pairKey(tk.ID, volunteer): true}}
	membership := &stubMembership{members: map[uuid.UUID][]uuid.UUID{roleID: {volunteer}}}

	svc := newService(tasks, completions, membership)
	_, err := svc.AssignToVolunteer(context.Background(), tk.ID, volunteer, uuid.New())

	assert.ErrorIs(t, err, ErrAlreadyAssigned)
	assert.Empty(t, completions.created)
}

func TestAssignPrerequisitesNotMet(t *testing.T) {
	roleID := uuid.New()
	volunteer := uuid.New()
	missingPrereq := uuid.New()
	tk := activeTask(roleID)

	tasks := &stubTasks{
		tasks:   map[uuid.UUID]*task.Task{tk.ID: tk},
		missing: map[uuid.UUID][]uuid.UUID{volunteer: {missingPrereq}},
	}
	membership := &stubMembership{members: map[uuid.UUID][]uuid.UUID{roleID: {volunteer}}}

	svc := newService(tasks, &stubCompletions{}, membership)
	_, err := svc.AssignToVolunteer(context.Background(), tk.ID, volunteer, uuid.New())

	assert.ErrorIs(t, err, ErrPrerequisitesNotMet)
	var assignErr *AssignmentError
	require.ErrorAs(t, err, &assignErr)
	assert.Contains(t, assignErr.Reason, missingPrereq.String())
}

func TestAssignRacingDuplicateMapsToAlreadyAssigned(t *testing.T) {
	roleID := uuid.New()
	volunteer := uuid.New()
	tk := activeTask(roleID)

	// Pre-check sees nothing, the unique index fires on insert
	tasks := &stubTasks{tasks: map[uuid.UUID]*task.Task{tk.ID: tk}}
	completions := &stubCompletions{
		failOn: map[string]error{pairKey(tk.ID, volunteer): completion.ErrDuplicateActive},
	}
	membership := &stubMembership{members: map[uuid.UUID][]uuid.UUID{roleID: {volunteer}}}

	svc := newService(tasks, completions, membership)
	_, err := svc.AssignToVolunteer(context.Background(), tk.ID, volunteer, uuid.New())

	assert.ErrorIs(t, err, ErrAlreadyAssigned)
}

func TestBulkAssignIsolatesFailures(t *testing.T) {
	roleID := uuid.New()
	member := uuid.New()
	outsider := uuid.New()
	tk1 := activeTask(roleID)
	tk2 := activeTask(roleID)

	tasks := &stubTasks{tasks: map[uuid.UUID]*task.Task{tk1.ID: tk1, tk2.ID: tk2}}
	completions := &stubCompletions{}
	membership := &stubMembership{members: map[uuid.UUID][]uuid.UUID{roleID: {member}}}

	svc := newService(tasks, completions, membership)
	result, err := svc.BulkAssign(context.Background(),
		[]uuid.UUID{tk1.ID, tk2.ID},
		[]uuid.UUID{member, outsider},
		uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalAttempted)
	assert.Equal(t, 2, result.TotalSuccessful)
	assert.Equal(t, 2, result.TotalFailed)
	require.Len(t, result.Failures, 2)
	for _, failure := range result.Failures {
		assert.Equal(t, outsider, failure.VolunteerID)
		assert.ErrorIs(t, failure, ErrNotEligible)
	}
	assert.Len(t, completions.created, 2, "the member's assignments must survive the outsider's failures")
}

func TestAutoAssignSkipsIneligibleMembers(t *testing.T) {
	roleID := uuid.New()
	okVolunteer := uuid.New()
	blockedVolunteer := uuid.New()
	tk := activeTask(roleID)

	tasks := &stubTasks{
		tasks:   map[uuid.UUID]*task.Task{tk.ID: tk},
		missing: map[uuid.UUID][]uuid.UUID{blockedVolunteer: {uuid.New()}},
	}
	completions := &stubCompletions{}
	membership := &stubMembership{members: map[uuid.UUID][]uuid.UUID{roleID: {okVolunteer, blockedVolunteer}}}

	svc := newService(tasks, completions, membership)
	result, err := svc.AutoAssign(context.Background(), tk.ID, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalAttempted)
	assert.Equal(t, 1, result.TotalSuccessful)
	assert.Equal(t, 1, result.TotalFailed)
	require.Len(t, result.Failures, 1)
	assert.ErrorIs(t, result.Failures[0], ErrPrerequisitesNotMet)
}

func TestAutoAssignUnknownTask(t *testing.T) {
	tasks := &stubTasks{tasks: map[uuid.UUID]*task.Task{}}
	svc := newService(tasks, &stubCompletions{}, &stubMembership{})

	_, err := svc.AutoAssign(context.Background(), uuid.New(), uuid.New())
	assert.True(t, errors.Is(err, task.ErrTaskNotFound))
}
