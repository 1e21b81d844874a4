package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationTypeDeadlineReminder = "DEADLINE_REMINDER"
	NotificationTypeDeadlineOverdue  = "DEADLINE_OVERDUE"
	NotificationTypeSystem           = "SYSTEM"
)

// Notification is the outbound record the external notification collaborator
// consumes. Delivery mechanics (email, SMS) live outside this module.
type Notification struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Context
	CaseID              *string `gorm:"type:uuid;index" json:"case_id,omitempty"`
	AutomatedDeadlineID *string `gorm:"type:uuid;index" json:"automated_deadline_id,omitempty"`

	// Content
	Type    string `gorm:"not null" json:"type"`
	Title   string `gorm:"not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	LinkURL string `json:"link_url,omitempty"` // e.g., "/deadlines/{id}"

	// Reminder offset this notification covers; deduplicates the sweep
	ReminderOffset *int `json:"reminder_offset,omitempty"`

	// Read tracking
	ReadAt *time.Time `json:"read_at,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
