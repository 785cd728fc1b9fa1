package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TrailEntry is one persisted audit record. Every state transition and
// assignment call in the engine produces one.
type TrailEntry struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ActorID     uuid.UUID      `json:"actor_id" gorm:"type:uuid;not null;index:idx_audit_actor"`
	Operation   string         `json:"operation" gorm:"type:varchar(100);not null;index:idx_audit_operation"`
	EntityType  string         `json:"entity_type" gorm:"type:varchar(50);not null;index:idx_audit_entity"`
	EntityID    uuid.UUID      `json:"entity_id" gorm:"type:uuid;not null;index:idx_audit_entity"`
	BeforeState string         `json:"before_state" gorm:"type:varchar(50)"`
	AfterState  string         `json:"after_state" gorm:"type:varchar(50)"`
	Metadata    datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"created_at" gorm:"not null;default:current_timestamp;index:idx_audit_time"`
}

// TableName specifies the table name for audit entries
func (TrailEntry) TableName() string {
	return "audit_trail"
}

// BeforeCreate hook for TrailEntry
func (e *TrailEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
