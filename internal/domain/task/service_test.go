package task

import (
	"context"
	"testing"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/audit"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, audit.RecordInput) {}

// stubTaskRepo overrides only what a test touches; anything else panics
type stubTaskRepo struct {
	TaskRepository
	prereqs map[uuid.UUID][]uuid.UUID
}

func (s *stubTaskRepo) Prerequisites(_ context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	return s.prereqs[taskID], nil
}

type stubCompletionChecker struct {
	satisfied map[uuid.UUID]map[uuid.UUID]bool
}

func (s *stubCompletionChecker) HasSatisfiedCompletion(_ context.Context, taskID, volunteerID uuid.UUID) (bool, error) {
	return s.satisfied[taskID][volunteerID], nil
}

func TestTaskStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    TaskStatus
		to      TaskStatus
		allowed bool
	}{
		{"draft to active", TaskStatusDraft, TaskStatusActive, true},
		{"draft to cancelled", TaskStatusDraft, TaskStatusCancelled, true},
		{"draft to completed", TaskStatusDraft, TaskStatusCompleted, false},
		{"draft to archived", TaskStatusDraft, TaskStatusArchived, false},
		{"active to suspended", TaskStatusActive, TaskStatusSuspended, true},
		{"active to completed", TaskStatusActive, TaskStatusCompleted, true},
		{"active to draft", TaskStatusActive, TaskStatusDraft, false},
		{"suspended to active", TaskStatusSuspended, TaskStatusActive, true},
		{"suspended to completed", TaskStatusSuspended, TaskStatusCompleted, false},
		{"completed to archived", TaskStatusCompleted, TaskStatusArchived, true},
		{"completed to active", TaskStatusCompleted, TaskStatusActive, false},
		{"cancelled to archived", TaskStatusCancelled, TaskStatusArchived, true},
		{"cancelled to active", TaskStatusCancelled, TaskStatusActive, false},
		{"archived is terminal", TaskStatusArchived, TaskStatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, isValidStatusTransition(tt.from, tt.to))
		})
	}
}

func TestPrerequisitesSatisfied(t *testing.T) {
	taskID := uuid.New()
	prereqA := uuid.New()
	prereqB := uuid.New()
	volunteer := uuid.New()

	tests := []struct {
		name          string
		prereqs       []uuid.UUID
		satisfied     map[uuid.UUID]map[uuid.UUID]bool
		wantSatisfied bool
		wantMissing   int
	}{
		{
			name:          "no prerequisites",
			prereqs:       nil,
			satisfied:     map[uuid.UUID]map[uuid.UUID]bool{},
			wantSatisfied: true,
			wantMissing:   0,
		},
		{
			name:    "all satisfied",
			prereqs: []uuid.UUID{prereqA, prereqB},
			satisfied: map[uuid.UUID]map[uuid.UUID]bool{
				prereqA: {volunteer: true},
				prereqB: {volunteer: true},
			},
			wantSatisfied: true,
			wantMissing:   0,
		},
		{
			name:    "one missing",
			prereqs: []uuid.UUID{prereqA, prereqB},
			satisfied: map[uuid.UUID]map[uuid.UUID]bool{
				prereqA: {volunteer: true},
			},
			wantSatisfied: false,
			wantMissing:   1,
		},
		{
			name:          "all missing",
			prereqs:       []uuid.UUID{prereqA, prereqB},
			satisfied:     map[uuid.UUID]map[uuid.UUID]bool{},
			wantSatisfied: false,
			wantMissing:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubTaskRepo{prereqs: map[uuid.UUID][]uuid.UUID{taskID: tt.prereqs}}
			checker := &stubCompletionChecker{satisfied: tt.satisfied}
			svc := NewService(repo, checker, noopRecorder{}, nil, zap.NewNop())

			satisfied, missing, err := svc.PrerequisitesSatisfied(context.Background(), taskID, volunteer)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSatisfied, satisfied)
			assert.Len(t, missing, tt.wantMissing)
		})
	}
}
