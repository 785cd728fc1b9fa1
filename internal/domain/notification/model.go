package notification

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Type represents the type of notification
type Type string

const (
	TaskAssigned             Type = "task_assigned"
	CompletionApproved       Type = "completion_approved"
	CompletionRejected       Type = "completion_rejected"
	CompletionRevisionNeeded Type = "completion_revision_needed"
	CompletionVerified       Type = "completion_verified"
	TaskDueSoon              Type = "task_due_soon"
	General                  Type = "general"
)

// Status represents the status of a notification
type Status string

const (
	Unread   Status = "UNREAD"
	Read     Status = "READ"
	Archived Status = "ARCHIVED"
)

// StringMap is a type for storing string-to-string mappings in JSONB fields
type StringMap map[string]string

func (m *StringMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(map[string]string)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal JSONB value: %v", value)
	}
	return json.Unmarshal(bytes, m)
}

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Notification is one message queued for a volunteer's inbox
type Notification struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	VolunteerID uuid.UUID `json:"volunteer_id" gorm:"type:uuid;not null;index:idx_notification_volunteer"`
	Type        Type      `json:"type" gorm:"type:varchar(50);not null"`
	Title       string    `json:"title" gorm:"not null"`
	Content     string    `json:"content"`
	Status      Status    `json:"status" gorm:"type:varchar(20);not null;default:'UNREAD'"`
	Data        StringMap `json:"data,omitempty" gorm:"type:jsonb"`
	Reference   string    `json:"reference" gorm:"type:varchar(50)"`
	ReferenceID uuid.UUID `json:"reference_id" gorm:"type:uuid"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;default:current_timestamp"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}

// TableName specifies the table name for notifications
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate hook for Notification
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Status == "" {
		n.Status = Unread
	}
	return nil
}
