package analytics

import (
	"context"
	"testing"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/completion"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRepo struct {
	byStatus   map[completion.CompletionStatus]int64
	byType     map[string]int64
	byPriority map[string]int64
	avg        *float64
	overdue    int64
}

func (s *stubRepo) CountByStatus(context.Context, Scope) (map[completion.CompletionStatus]int64, error) {
	return s.byStatus, nil
}

func (s *stubRepo) CountByTaskType(context.Context, Scope) (map[string]int64, error) {
	return s.byType, nil
}

func (s *stubRepo) CountByPriority(context.Context, Scope) (map[string]int64, error) {
	return s.byPriority, nil
}

func (s *stubRepo) AverageCompletionMinutes(context.Context, Scope) (*float64, error) {
	return s.avg, nil
}

func (s *stubRepo) CountOverdue(context.Context, Scope) (int64, error) {
	return s.overdue, nil
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name     string
		byStatus map[completion.CompletionStatus]int64
		want     float64
	}{
		{
			name:     "empty scope",
			byStatus: map[completion.CompletionStatus]int64{},
			want:     0,
		},
		{
			name: "all satisfied",
			byStatus: map[completion.CompletionStatus]int64{
				completion.CompletionStatusApproved: 2,
				completion.CompletionStatusVerified: 3,
			},
			want: 100,
		},
		{
			name: "one of three",
			byStatus: map[completion.CompletionStatus]int64{
				completion.CompletionStatusApproved: 1,
				completion.CompletionStatusPending:  1,
				completion.CompletionStatusRejected: 1,
			},
			want: 33.33,
		},
		{
			name: "none satisfied",
			byStatus: map[completion.CompletionStatus]int64{
				completion.CompletionStatusPending:   4,
				completion.CompletionStatusCancelled: 2,
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&stubRepo{byStatus: tt.byStatus}, zap.NewNop())
			rate, err := svc.CompletionRate(context.Background(), Scope{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rate)
		})
	}
}

func TestAverageCompletionMinutes(t *testing.T) {
	t.Run("no data", func(t *testing.T) {
		svc := NewService(&stubRepo{}, zap.NewNop())
		avg, err := svc.AverageCompletionMinutes(context.Background(), Scope{})
		require.NoError(t, err)
		assert.Nil(t, avg, "no timing data must yield nil, not zero")
	})

	t.Run("rounded to two decimals", func(t *testing.T) {
		raw := 42.6789
		svc := NewService(&stubRepo{avg: &raw}, zap.NewNop())
		avg, err := svc.AverageCompletionMinutes(context.Background(), Scope{})
		require.NoError(t, err)
		require.NotNil(t, avg)
		assert.Equal(t, 42.68, *avg)
	})
}

func TestStatusDistributionZeroFills(t *testing.T) {
	svc := NewService(&stubRepo{
		byStatus: map[completion.CompletionStatus]int64{
			completion.CompletionStatusApproved: 5,
		},
	}, zap.NewNop())

	dist, err := svc.StatusDistribution(context.Background(), Scope{})
	require.NoError(t, err)

	assert.Len(t, dist, len(completion.AllCompletionStatuses()))
	assert.Equal(t, int64(5), dist[completion.CompletionStatusApproved])
	assert.Equal(t, int64(0), dist[completion.CompletionStatusPending])
	assert.Equal(t, int64(0), dist[completion.CompletionStatusVerified])
}

func TestTypeDistributionZeroFills(t *testing.T) {
	svc := NewService(&stubRepo{
		byType: map[string]int64{string(task.TaskTypePhoto): 2},
	}, zap.NewNop())

	dist, err := svc.TypeDistribution(context.Background(), Scope{})
	require.NoError(t, err)

	assert.Len(t, dist, len(task.AllTaskTypes()))
	assert.Equal(t, int64(2), dist[string(task.TaskTypePhoto)])
	assert.Equal(t, int64(0), dist[string(task.TaskTypeCheckbox)])
}

func TestPriorityDistributionZeroFills(t *testing.T) {
	svc := NewService(&stubRepo{
		byPriority: map[string]int64{string(task.TaskPriorityUrgent): 1},
	}, zap.NewNop())

	dist, err := svc.PriorityDistribution(context.Background(), Scope{})
	require.NoError(t, err)

	assert.Len(t, dist, len(task.AllTaskPriorities()))
	assert.Equal(t, int64(1), dist[string(task.TaskPriorityUrgent)])
	assert.Equal(t, int64(0), dist[string(task.TaskPriorityLow)])
}

func TestSummarize(t *testing.T) {
	raw := 17.5
	svc := NewService(&stubRepo{
		byStatus: map[completion.CompletionStatus]int64{
			completion.CompletionStatusApproved:  2,
			completion.CompletionStatusVerified:  1,
			completion.CompletionStatusPending:   3,
			completion.CompletionStatusSubmitted: 2,
		},
		byType:     map[string]int64{string(task.TaskTypeText): 8},
		byPriority: map[string]int64{string(task.TaskPriorityNormal): 8},
		avg:        &raw,
		overdue:    2,
	}, zap.NewNop())

	summary, err := svc.Summarize(context.Background(), Scope{})
	require.NoError(t, err)

	assert.Equal(t, int64(8), summary.TotalCompletions)
	assert.Equal(t, int64(3), summary.SatisfiedCompletions)
	assert.Equal(t, 37.5, summary.CompletionRate)
	assert.Equal(t, int64(2), summary.OverdueCount)
	require.NotNil(t, summary.AverageMinutes)
	assert.Equal(t, 17.5, *summary.AverageMinutes)
	assert.Equal(t, int64(8), summary.ByTaskType[string(task.TaskTypeText)])
	assert.Equal(t, int64(8), summary.ByPriority[string(task.TaskPriorityNormal)])
}
