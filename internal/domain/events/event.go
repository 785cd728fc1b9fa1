package events

import (
	"time"

	"github.com/google/uuid"
)

// Engine event types published on task and completion mutations
const (
	EventTypeTaskUpdate       = "task_update"
	EventTypeCompletionUpdate = "completion_update"
	EventTypeAssignmentUpdate = "assignment_update"
)

// EngineEvent represents a mutation event emitted by the workflow engine,
// consumed by cache invalidation and dashboard refresh listeners.
type EngineEvent struct {
	EventType string      `json:"event_type"`
	ActorID   uuid.UUID   `json:"actor_id"`
	EntityID  uuid.UUID   `json:"entity_id"`
	Timestamp time.Time   `json:"timestamp"`
	Details   interface{} `json:"details,omitempty"`
}

// Standard sub-types carried in EngineEvent details
const (
	EngineEventCacheInvalidate = "cache_invalidate"
	EngineEventMetricsUpdate   = "metrics_update"
)
