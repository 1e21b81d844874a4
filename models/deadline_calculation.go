package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reasons a calculation snapshot was taken
const (
	CalculationReasonInitial  = "INITIAL"
	CalculationReasonOverride = "OVERRIDE"
)

// DeadlineCalculation is the immutable audit snapshot of one calculation
// attempt: the exact inputs, the method, and the result. Append-only, one
// record per attempt, including recalculations triggered by overrides. An
// AutomatedDeadline must never exist without at least one of these.
type DeadlineCalculation struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_calculation_created_at" json:"created_at"`

	// Monotonic sequence across all calculations, allocated transactionally
	Seq int64 `gorm:"not null;uniqueIndex" json:"seq"`

	AutomatedDeadlineID string `gorm:"type:uuid;not null;index" json:"automated_deadline_id"`
	TemplateID          string `gorm:"type:uuid;not null" json:"template_id"`
	CaseID              string `gorm:"type:uuid;not null;index" json:"case_id"`

	JurisdictionID string  `gorm:"type:uuid;not null" json:"jurisdiction_id"`
	CourtRuleID    *string `gorm:"type:uuid" json:"court_rule_id,omitempty"`

	TriggerEvent string    `gorm:"not null" json:"trigger_event"`
	TriggerDate  time.Time `gorm:"not null" json:"trigger_date"`

	// Exact engine inputs, JSON encoded for historical accuracy even if the
	// template is later edited
	Parameters string `gorm:"type:text;not null" json:"parameters"`

	CalculationMethod string    `gorm:"not null" json:"calculation_method"`
	CalculatedDate    time.Time `gorm:"not null" json:"calculated_date"`
	ActualDays        int       `gorm:"not null" json:"actual_days"`

	// INITIAL for generator runs, OVERRIDE for manual corrections
	Reason string `gorm:"not null;default:INITIAL" json:"reason"`

	// Actor, for override snapshots
	RecordedBy *string `json:"recorded_by,omitempty"`
}

// BeforeCreate generates the UUID
func (c *DeadlineCalculation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate prevents modification of calculation snapshots (immutability)
func (c *DeadlineCalculation) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound // Prevent any updates
}

// BeforeDelete prevents deletion of calculation snapshots (immutability)
func (c *DeadlineCalculation) BeforeDelete(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound // Prevent any deletes
}

// TableName specifies the table name
func (DeadlineCalculation) TableName() string {
	return "deadline_calculations"
}
