package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AutomatedDeadline statuses. PENDING is the only stored non-terminal value;
// DUE_SOON and OVERDUE are derived from the clock, never persisted.
const (
	DeadlineStatusPending       = "PENDING"
	DeadlineStatusDueSoon       = "DUE_SOON"
	DeadlineStatusOverdue       = "OVERDUE"
	DeadlineStatusCompleted     = "COMPLETED"
	DeadlineStatusCompletedLate = "COMPLETED_LATE"
	DeadlineStatusExtended      = "EXTENDED"
	DeadlineStatusWaived        = "WAIVED"
	DeadlineStatusCancelled     = "CANCELLED"
)

// IsTerminalDeadlineStatus reports whether the status ends the state machine
func IsTerminalDeadlineStatus(status string) bool {
	switch status {
	case DeadlineStatusCompleted, DeadlineStatusCompletedLate,
		DeadlineStatusExtended, DeadlineStatusWaived, DeadlineStatusCancelled:
		return true
	}
	return false
}

// AutomatedDeadline is one materialized deadline produced by the generator
// from a template and a trigger event. It is never deleted: cancellation is
// a status. Mutation after creation happens only through the override
// subsystem.
type AutomatedDeadline struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TemplateID string           `gorm:"type:uuid;not null;index;uniqueIndex:idx_generation_key" json:"template_id"`
	Template   DeadlineTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`

	CaseID string  `gorm:"type:uuid;not null;index;uniqueIndex:idx_generation_key" json:"case_id"`
	Case   CaseRef `gorm:"foreignKey:CaseID" json:"case,omitempty"`

	// Generation key: one AutomatedDeadline per (case, event, trigger date, template)
	TriggerEvent string    `gorm:"not null;uniqueIndex:idx_generation_key" json:"trigger_event"`
	TriggerDate  time.Time `gorm:"not null;uniqueIndex:idx_generation_key" json:"trigger_date"`

	DueDate           time.Time `gorm:"not null;index" json:"due_date"`
	OriginalDays      int       `gorm:"not null" json:"original_days"` // the template's time limit
	ActualDays        int       `gorm:"not null" json:"actual_days"`   // elapsed calendar days trigger -> due
	CalculationMethod string    `gorm:"not null" json:"calculation_method"`

	Status         string `gorm:"not null;default:PENDING" json:"status"`
	ExtensionCount int    `gorm:"not null;default:0" json:"extension_count"`

	// Override metadata
	IsManualOverride bool       `gorm:"not null;default:false" json:"is_manual_override"`
	OverrideReason   *string    `gorm:"type:text" json:"override_reason,omitempty"`
	OverriddenBy     *string    `json:"overridden_by,omitempty"`
	OverriddenAt     *time.Time `json:"overridden_at,omitempty"`
	Notes            string     `gorm:"type:text" json:"notes,omitempty"`

	// Downstream shared record kept in sync with this one
	DeadlineID string    `gorm:"type:uuid;not null" json:"deadline_id"`
	Deadline   *Deadline `gorm:"foreignKey:DeadlineID" json:"deadline,omitempty"`
}

// BeforeCreate hook to generate UUID
func (a *AutomatedDeadline) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for AutomatedDeadline model
func (AutomatedDeadline) TableName() string {
	return "automated_deadlines"
}

// EffectiveStatus derives the current status from the clock. A stored
// terminal status always wins; otherwise the deadline is OVERDUE past its
// due date, DUE_SOON inside the reminder window, and PENDING before it.
// dueSoonDays is the window to use when the template has no reminder
// offsets.
func (a *AutomatedDeadline) EffectiveStatus(now time.Time, reminderOffsets []int, dueSoonDays int) string {
	if IsTerminalDeadlineStatus(a.Status) {
		return a.Status
	}

	if now.After(a.DueDate) {
		return DeadlineStatusOverdue
	}

	window := dueSoonDays
	if len(reminderOffsets) > 0 {
		// Offsets are ordered descending; the largest bounds the window
		window = reminderOffsets[0]
	}

	if !now.Before(a.DueDate.AddDate(0, 0, -window)) {
		return DeadlineStatusDueSoon
	}

	return DeadlineStatusPending
}

// IsOpen reports whether the deadline can still transition
func (a *AutomatedDeadline) IsOpen() bool {
	return !IsTerminalDeadlineStatus(a.Status)
}
