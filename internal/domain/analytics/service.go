package analytics

import (
	"context"
	"math"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/completion"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/task"
	"go.uber.org/zap"
)

// Summary is the full aggregate picture for a scope. Distributions are
// zero-filled over the known enums so consumers always see every bucket.
type Summary struct {
	TotalCompletions     int64                                   `json:"total_completions"`
	SatisfiedCompletions int64                                   `json:"satisfied_completions"`
	CompletionRate       float64                                 `json:"completion_rate"`
	AverageMinutes       *float64                                `json:"average_minutes,omitempty"`
	OverdueCount         int64                                   `json:"overdue_count"`
	ByStatus             map[completion.CompletionStatus]int64   `json:"by_status"`
	ByTaskType           map[string]int64                        `json:"by_task_type"`
	ByPriority           map[string]int64                        `json:"by_priority"`
}

type Service interface {
	// CompletionRate is satisfied over total as a percentage in [0, 100],
	// rounded to two decimals. An empty scope yields 0, never a division
	// error.
	CompletionRate(ctx context.Context, scope Scope) (float64, error)

	// AverageCompletionMinutes returns nil when no satisfied completion
	// carries timing data, distinguishing "no data" from a zero average.
	AverageCompletionMinutes(ctx context.Context, scope Scope) (*float64, error)

	StatusDistribution(ctx context.Context, scope Scope) (map[completion.CompletionStatus]int64, error)
	TypeDistribution(ctx context.Context, scope Scope) (map[string]int64, error)
	PriorityDistribution(ctx context.Context, scope Scope) (map[string]int64, error)

	Summarize(ctx context.Context, scope Scope) (*Summary, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) CompletionRate(ctx context.Context, scope Scope) (float64, error) {
	counts, err := s.repo.CountByStatus(ctx, scope)
	if err != nil {
		return 0, err
	}
	return rateFrom(counts), nil
}

func (s *service) AverageCompletionMinutes(ctx context.Context, scope Scope) (*float64, error) {
	avg, err := s.repo.AverageCompletionMinutes(ctx, scope)
	if err != nil {
		return nil, err
	}
	if avg == nil {
		return nil, nil
	}
	rounded := round2(*avg)
	return &rounded, nil
}

func (s *service) StatusDistribution(ctx context.Context, scope Scope) (map[completion.CompletionStatus]int64, error) {
	counts, err := s.repo.CountByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}
	filled := make(map[completion.CompletionStatus]int64, len(counts))
	for _, status := range completion.AllCompletionStatuses() {
		filled[status] = counts[status]
	}
	return filled, nil
}

func (s *service) TypeDistribution(ctx context.Context, scope Scope) (map[string]int64, error) {
	counts, err := s.repo.CountByTaskType(ctx, scope)
	if err != nil {
		return nil, err
	}
	filled := make(map[string]int64)
	for _, t := range task.AllTaskTypes() {
		filled[string(t)] = counts[string(t)]
	}
	return filled, nil
}

func (s *service) PriorityDistribution(ctx context.Context, scope Scope) (map[string]int64, error) {
	counts, err := s.repo.CountByPriority(ctx, scope)
	if err != nil {
		return nil, err
	}
	filled := make(map[string]int64)
	for _, p := range task.AllTaskPriorities() {
		filled[string(p)] = counts[string(p)]
	}
	return filled, nil
}

func (s *service) Summarize(ctx context.Context, scope Scope) (*Summary, error) {
	byStatus, err := s.StatusDistribution(ctx, scope)
	if err != nil {
		return nil, err
	}
	byType, err := s.TypeDistribution(ctx, scope)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.PriorityDistribution(ctx, scope)
	if err != nil {
		return nil, err
	}
	avg, err := s.AverageCompletionMinutes(ctx, scope)
	if err != nil {
		return nil, err
	}
	overdue, err := s.repo.CountOverdue(ctx, scope)
	if err != nil {
		return nil, err
	}

	var total, satisfied int64
	for status, count := range byStatus {
		total += count
		if status.IsSatisfied() {
			satisfied += count
		}
	}

	return &Summary{
		TotalCompletions:     total,
		SatisfiedCompletions: satisfied,
		CompletionRate:       rateFrom(byStatus),
		AverageMinutes:       avg,
		OverdueCount:         overdue,
		ByStatus:             byStatus,
		ByTaskType:           byType,
		ByPriority:           byPriority,
	}, nil
}

func rateFrom(counts map[completion.CompletionStatus]int64) float64 {
	var total, satisfied int64
	for status, count := range counts {
		total += count
		if status.IsSatisfied() {
			satisfied += count
		}
	}
	if total == 0 {
		return 0
	}
	return round2(float64(satisfied) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
