package completion

import (
	"context"
	"testing"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/audit"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/notification"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, audit.RecordInput) {}

// memRepo is an in-memory Repository with compare-and-swap semantics
type memRepo struct {
	completions map[uuid.UUID]*TaskCompletion
	counters    map[uuid.UUID]CounterDelta
}

func newMemRepo() *memRepo {
	return &memRepo{
		completions: map[uuid.UUID]*TaskCompletion{},
		counters:    map[uuid.UUID]CounterDelta{},
	}
}

func (m *memRepo) Create(_ context.Context, c *TaskCompletion) error {
	for _, existing := range m.completions {
		if existing.TaskID == c.TaskID && existing.VolunteerID == c.VolunteerID &&
			existing.Status != CompletionStatusRejected && existing.Status != CompletionStatusCancelled {
			return ErrDuplicateActive
		}
	}
	m.completions[c.ID] = c
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id uuid.UUID) (*TaskCompletion, error) {
	c, ok := m.completions[id]
	if !ok {
		return nil, ErrCompletionNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *memRepo) FindAll(_ context.Context, _ CompletionFilter) ([]TaskCompletion, int64, error) {
	var out []TaskCompletion
	for _, c := range m.completions {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (m *memRepo) SaveTransition(_ context.Context, c *TaskCompletion, expected CompletionStatus, updates map[string]interface{}, counter CounterDelta) error {
	stored, ok := m.completions[c.ID]
	if !ok {
		return ErrCompletionNotFound
	}
	if stored.Status != expected {
		return ErrStaleTransition
	}
	if next, ok := updates["status"].(CompletionStatus); ok {
		stored.Status = next
	}
	delta := m.counters[c.TaskID]
	delta.Total += counter.Total
	delta.Verified += counter.Verified
	m.counters[c.TaskID] = delta
	return nil
}

func (m *memRepo) FindActive(_ context.Context, taskID, volunteerID uuid.UUID) (*TaskCompletion, error) {
	for _, c := range m.completions {
		if c.TaskID == taskID && c.VolunteerID == volunteerID &&
			c.Status != CompletionStatusRejected && c.Status != CompletionStatusCancelled {
			copied := *c
			return &copied, nil
		}
	}
	return nil, ErrCompletionNotFound
}

func (m *memRepo) HasSatisfiedCompletion(_ context.Context, taskID, volunteerID uuid.UUID) (bool, error) {
	for _, c := range m.completions {
		if c.TaskID == taskID && c.VolunteerID == volunteerID && c.Status.IsSatisfied() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) FindPendingForTask(_ context.Context, taskID uuid.UUID) ([]TaskCompletion, error) {
	var out []TaskCompletion
	for _, c := range m.completions {
		if c.TaskID == taskID && c.Status == CompletionStatusPending {
			out = append(out, *c)
		}
	}
	return out, nil
}

// stubTaskRepo serves the single task the tests operate on
type stubTaskRepo struct {
	task.TaskRepository
	t *task.Task
}

func (s *stubTaskRepo) FindByID(_ context.Context, id uuid.UUID) (*task.Task, error) {
	if s.t != nil && s.t.ID == id {
		return s.t, nil
	}
	return nil, task.ErrTaskNotFound
}

type capturedNotification struct {
	volunteerID uuid.UUID
	typ         notification.Type
}

type captureNotifier struct {
	sent []capturedNotification
}

func (n *captureNotifier) NotifyVolunteer(_ context.Context, volunteerID uuid.UUID, typ notification.Type, _, _ string, _ map[string]string, _ string, _ uuid.UUID) error {
	n.sent = append(n.sent, capturedNotification{volunteerID: volunteerID, typ: typ})
	return nil
}

type fixture struct {
	svc      Service
	repo     *memRepo
	notifier *captureNotifier
	task     *task.Task
}

func newFixture(t *testing.T, taskType task.TaskType, requiresVerification bool) *fixture {
	t.Helper()

	cfg := task.DefaultConfiguration(taskType)
	encoded, err := cfg.Encode()
	require.NoError(t, err)

	owner := &task.Task{
		ID:                   uuid.New(),
		Title:                "Complete garda vetting",
		TaskType:             taskType,
		Status:               task.TaskStatusActive,
		RequiresVerification: requiresVerification,
		Configuration:        encoded,
	}

	repo := newMemRepo()
	notifier := &captureNotifier{}
	svc := NewService(repo, &stubTaskRepo{t: owner}, noopRecorder{}, notifier, nil, zap.NewNop())

	return &fixture{svc: svc, repo: repo, notifier: notifier, task: owner}
}

func (f *fixture) seed(status CompletionStatus) *TaskCompletion {
	c := &TaskCompletion{
		ID:                   uuid.New(),
		TaskID:               f.task.ID,
		VolunteerID:          uuid.New(),
		CompletionType:       f.task.TaskType,
		Status:               status,
		RequiresVerification: f.task.RequiresVerification,
	}
	f.repo.completions[c.ID] = c
	return c
}

func TestSubmitValidPayload(t *testing.T) {
	f := newFixture(t, task.TaskTypeCheckbox, false)
	c := f.seed(CompletionStatusPending)

	result, err := f.svc.Submit(context.Background(), c.ID, c.VolunteerID, SubmitInput{
		Data: CompletionPayload{Completed: true},
	})
	require.NoError(t, err)
	assert.Equal(t, CompletionStatusSubmitted, result.Status)
	assert.NotNil(t, result.SubmittedAt)
}

func TestSubmitInvalidPayloadLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, task.TaskTypeText, false)
	c := f.seed(CompletionStatusPending)

	_, err := f.svc.Submit(context.Background(), c.ID, c.VolunteerID, SubmitInput{
		Data: CompletionPayload{Text: "short"},
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Violations)

	stored, err := f.repo.FindByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, CompletionStatusPending, stored.Status, "failed validation must not mutate")
}

func TestSubmitFromIllegalState(t *testing.T) {
	f := newFixture(t, task.TaskTypeCheckbox, false)
	c := f.seed(CompletionStatusApproved)

	_, err := f.svc.Submit(context.Background(), c.ID, c.VolunteerID, SubmitInput{
		Data: CompletionPayload{Completed: true},
	})

	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, CompletionStatusApproved, transitionErr.Current)
}

func TestApproveIncrementsCounterOnce(t *testing.T) {
	f := newFixture(t, task.TaskTypeCheckbox, false)
	c := f.seed(CompletionStatusSubmitted)
	reviewer := uuid.New()

	result, err := f.svc.Approve(context.Background(), c.ID, reviewer, "looks good")
	require.NoError(t, err)
	assert.Equal(t, CompletionStatusApproved, result.Status)
	assert.NotNil(t, result.CompletedAt)
	assert.Equal(t, 1, f.repo.counters[f.task.ID].Total)

	// A second approve must fail before touching the counter
	_, err = f.svc.Approve(context.Background(), c.ID, reviewer, "again")
	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, 1, f.repo.counters[f.task.ID].Total)
}

func TestApproveNotifiesVolunteer(t *testing.T) {
	f := newFixture(t, task.TaskTypeCheckbox, false)
	c := f.seed(CompletionStatusSubmitted)

	_, err := f.svc.Approve(context.Background(), c.ID, uuid.New(), "")
	require.NoError(t, err)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, c.VolunteerID, f.notifier.sent[0].volunteerID)
	assert.Equal(t, notification.CompletionApproved, f.notifier.sent[0].typ)
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture(t, task.TaskTypeCheckbox, false)
	c := f.seed(CompletionStatusSubmitted)

	_, err := f.svc.Reject(context.Background(), c.ID, uuid.New(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	result, err := f.svc.Reject(context.Background(), c.ID, uuid.New(), "photo is unreadable")
	require.NoError(t, err)
	assert.Equal(t, CompletionStatusRejected, result.Status)
	assert.Equal(t, "photo is unreadable", result.ReviewNotes)
}

func TestRequestRevisionBumpsCount(t *testing.T) {
	f := newFixture(t, task.TaskTypeCheckbox, false)
	c := f.seed(CompletionStatusUnderReview)

	result, err := f.svc.RequestRevision(context.Background(), c.ID, uuid.New(), "retake photo 2")
	require.NoError(t, err)
	assert.Equal(t, CompletionStatusRevisionRequired, result.Status)
	assert.Equal(t, 1, result.RevisionCount)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notification.CompletionRevisionNeeded, f.notifier.sent[0].typ)
}

func TestVerifyHappyPath(t *testing.T) {
	f := newFixture(t, task.TaskTypeCheckbox, true)
	c := f.seed(CompletionStatusApproved)
	verifier := uuid.New()

	result, err := f.svc.Verify(context.Background(), c.ID, verifier, 4, "spot checked")
	require.NoError(t, err)
	assert.Equal(t, CompletionStatusVerified, result.Status)
	require.NotNil(t, result.VerifiedBy)
	assert.Equal(t, verifier, *result.VerifiedBy)
	require.NotNil(t, result.QualityScore)
	assert.Equal(t, 4, *result.QualityScore)
	assert.Equal(t, 1, f.repo.counters[f.task.ID].Verified)
}

func TestVerifyRefusedWhenNotRequired(t *testing.T) {
	f := newFixture(t, task.TaskTypeCheckbox, false)
	c := f.seed(CompletionStatusApproved)

	_, err := f.svc.Verify(context.Background(), c.ID, uuid.New(), 4, "")
	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Contains(t, transitionErr.Reason, "does not require verification")
}

func TestVerifyRequiresQualityScore(t *testing.T) {
	f := newFixture(t, task.TaskTypeCheckbox, true)
	c := f.seed(CompletionStatusApproved)

	_, err := f.svc.Verify(context.Background(), c.ID, uuid.New(), 0, "")
	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Contains(t, transitionErr.Reason, "quality score")

	_, err = f.svc.Verify(context.Background(), c.ID, uuid.New(), 6, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestVerifyFromNonApprovedState(t *testing.T) {
	f := newFixture(t, task.TaskTypeCheckbox, true)
	c := f.seed(CompletionStatusSubmitted)

	_, err := f.svc.Verify(context.Background(), c.ID, uuid.New(), 4, "")
	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, CompletionStatusSubmitted, transitionErr.Current)
}

func TestCancelFromTerminalState(t *testing.T) {
	f := newFixture(t, task.TaskTypeCheckbox, false)
	c := f.seed(CompletionStatusCancelled)

	_, err := f.svc.Cancel(context.Background(), c.ID, uuid.New(), "")
	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
}

func TestResubmitCreatesLinkedAttempt(t *testing.T) {
	f := newFixture(t, task.TaskTypeCheckbox, false)
	c := f.seed(CompletionStatusRejected)

	replacement, err := f.svc.Resubmit(context.Background(), c.ID, c.VolunteerID)
	require.NoError(t, err)
	assert.Equal(t, CompletionStatusPending, replacement.Status)
	assert.NotEqual(t, c.ID, replacement.ID)
	require.NotNil(t, replacement.PreviousCompletionID)
	assert.Equal(t, c.ID, *replacement.PreviousCompletionID)
	assert.Equal(t, c.TaskID, replacement.TaskID)
	assert.Equal(t, c.VolunteerID, replacement.VolunteerID)
}

func TestResubmitOnlyFromRejected(t *testing.T) {
	f := newFixture(t, task.TaskTypeCheckbox, false)
	c := f.seed(CompletionStatusPending)

	_, err := f.svc.Resubmit(context.Background(), c.ID, c.VolunteerID)
	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
}

func TestStaleTransitionSurfacesFreshState(t *testing.T) {
	f := newFixture(t, task.TaskTypeCheckbox, false)
	c := f.seed(CompletionStatusSubmitted)

	// Simulate a concurrent reviewer winning the race after the read
	first, err := f.svc.Approve(context.Background(), c.ID, uuid.New(), "")
	require.NoError(t, err)
	assert.Equal(t, CompletionStatusApproved, first.Status)

	_, err = f.svc.Reject(context.Background(), c.ID, uuid.New(), "too late")
	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, CompletionStatusApproved, transitionErr.Current)
}
