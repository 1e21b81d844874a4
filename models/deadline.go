package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deadline statuses visible to downstream calendar/notification collaborators
const (
	DownstreamStatusPending   = "PENDING"
	DownstreamStatusCompleted = "COMPLETED"
	DownstreamStatusCancelled = "CANCELLED"
)

// Deadline is the downstream record shared with calendar and notification
// collaborators. Automated deadlines keep their linked Deadline in sync, but
// it is a distinct entity so manually entered deadlines can coexist.
type Deadline struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CaseID string  `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   CaseRef `gorm:"foreignKey:CaseID" json:"case,omitempty"`

	Title    string    `gorm:"not null" json:"title"`
	DueDate  time.Time `gorm:"not null;index" json:"due_date"`
	Status   string    `gorm:"not null;default:PENDING" json:"status"`
	Priority string    `gorm:"not null;default:MEDIUM" json:"priority"`

	// Reminder offsets in days before the due date, JSON encoded, consumed by
	// the downstream reminder scheduler
	ReminderDays string `gorm:"type:text;default:'[]'" json:"reminder_days"`

	AssignedTo *string `json:"assigned_to,omitempty"`

	// Completion metadata set by the override subsystem
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy *string    `json:"completed_by,omitempty"`

	// True when this record was materialized by the generator
	IsAutomated bool `gorm:"not null;default:false" json:"is_automated"`
}

// BeforeCreate hook to generate UUID
func (d *Deadline) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.ReminderDays == "" {
		d.ReminderDays = "[]"
	}
	return nil
}

// TableName specifies the table name for Deadline model
func (Deadline) TableName() string {
	return "deadlines"
}
