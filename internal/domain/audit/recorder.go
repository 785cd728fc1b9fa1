package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// RecordInput carries one audit record
type RecordInput struct {
	ActorID     uuid.UUID
	Operation   string
	EntityType  string
	EntityID    uuid.UUID
	BeforeState string
	AfterState  string
	Metadata    map[string]interface{}
}

// Recorder records audit entries for engine mutations. Callers invoke it
// synchronously after a successful mutation and never depend on its
// result; failures are logged, not returned.
type Recorder interface {
	Record(ctx context.Context, input RecordInput)
}

// ListFilter defines filtering options for reading the trail
type ListFilter struct {
	EntityType *string
	EntityID   *uuid.UUID
	ActorID    *uuid.UUID
	Operation  *string
	StartTime  *time.Time
	EndTime    *time.Time
	Page       int
	PageSize   int
}

// Repository reads and writes the persisted trail
type Repository interface {
	Create(ctx context.Context, entry *TrailEntry) error
	FindAll(ctx context.Context, filter ListFilter) ([]TrailEntry, int64, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *TrailEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]TrailEntry, int64, error) {
	var entries []TrailEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&TrailEntry{})

	if filter.EntityType != nil {
		query = query.Where("entity_type = ?", *filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.Operation != nil {
		query = query.Where("operation = ?", *filter.Operation)
	}
	if filter.StartTime != nil && filter.EndTime != nil {
		query = query.Where("created_at BETWEEN ? AND ?", *filter.StartTime, *filter.EndTime)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize == 0 {
		filter.PageSize = 100
	}

	err := query.Order("created_at DESC").
		Offset(filter.Page * filter.PageSize).
		Limit(filter.PageSize).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

type recorder struct {
	repo   Repository
	logger *zap.Logger
}

// NewRecorder creates a Recorder backed by the persisted trail
func NewRecorder(repo Repository, logger *zap.Logger) Recorder {
	return &recorder{repo: repo, logger: logger}
}

func (r *recorder) Record(ctx context.Context, input RecordInput) {
	entry := &TrailEntry{
		ID:          uuid.New(),
		ActorID:     input.ActorID,
		Operation:   input.Operation,
		EntityType:  input.EntityType,
		EntityID:    input.EntityID,
		BeforeState: input.BeforeState,
		AfterState:  input.AfterState,
		Metadata:    marshalMetadata(input.Metadata),
		CreatedAt:   time.Now(),
	}

	if err := r.repo.Create(ctx, entry); err != nil {
		r.logger.Error("Failed to record audit entry",
			zap.String("operation", input.Operation),
			zap.String("entity_id", input.EntityID.String()),
			zap.Error(err))
	}
}

func marshalMetadata(data map[string]interface{}) datatypes.JSON {
	if data == nil {
		return datatypes.JSON("{}")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}
