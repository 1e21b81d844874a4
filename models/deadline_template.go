package models

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trigger events that start a deadline clock
const (
	TriggerCaseFiled        = "CASE_FILED"
	TriggerServiceCompleted = "SERVICE_COMPLETED"
	TriggerAnswerFiled      = "ANSWER_FILED"
	TriggerDiscoveryServed  = "DISCOVERY_SERVED"
	TriggerMotionFiled      = "MOTION_FILED"
	TriggerHearingScheduled = "HEARING_SCHEDULED"
	TriggerJudgmentEntered  = "JUDGMENT_ENTERED"
	TriggerAppealFiled      = "APPEAL_FILED"
	TriggerCustomEvent      = "CUSTOM_EVENT"
)

// Time limit units
const (
	UnitMinutes = "MINUTES"
	UnitHours   = "HOURS"
	UnitDays    = "DAYS"
	UnitWeeks   = "WEEKS"
	UnitMonths  = "MONTHS"
	UnitYears   = "YEARS"
)

// Calculation methods
const (
	MethodCalendarDays = "CALENDAR_DAYS"
	MethodBusinessDays = "BUSINESS_DAYS"
	MethodCourtDays    = "COURT_DAYS"
	MethodCustom       = "CUSTOM"
)

// Deadline priorities (exposed to the notification collaborator)
const (
	PriorityLow      = "LOW"
	PriorityMedium   = "MEDIUM"
	PriorityHigh     = "HIGH"
	PriorityCritical = "CRITICAL"
)

// KnownTriggerEvent reports whether the given event name is part of the enum
func KnownTriggerEvent(event string) bool {
	switch event {
	case TriggerCaseFiled, TriggerServiceCompleted, TriggerAnswerFiled,
		TriggerDiscoveryServed, TriggerMotionFiled, TriggerHearingScheduled,
		TriggerJudgmentEntered, TriggerAppealFiled, TriggerCustomEvent:
		return true
	}
	return false
}

// KnownTimeLimitUnit reports whether the given unit is part of the enum
func KnownTimeLimitUnit(unit string) bool {
	switch unit {
	case UnitMinutes, UnitHours, UnitDays, UnitWeeks, UnitMonths, UnitYears:
		return true
	}
	return false
}

// KnownCalculationMethod reports whether the given method is part of the enum
func KnownCalculationMethod(method string) bool {
	switch method {
	case MethodCalendarDays, MethodBusinessDays, MethodCourtDays, MethodCustom:
		return true
	}
	return false
}

// DeadlineTemplate maps a trigger event to a calculation parameter set.
// A nil JurisdictionID makes the template universal: it matches triggers in
// every jurisdiction. Templates are created by administrators and never
// mutated mid-calculation; the generator snapshots the parameters it used
// into the DeadlineCalculation record.
type DeadlineTemplate struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name         string `gorm:"not null" json:"name"` // "Answer to Complaint"
	TriggerEvent string `gorm:"not null;index:idx_template_match" json:"trigger_event"`

	JurisdictionID *string       `gorm:"type:uuid;index:idx_template_match" json:"jurisdiction_id,omitempty"`
	Jurisdiction   *Jurisdiction `gorm:"foreignKey:JurisdictionID" json:"jurisdiction,omitempty"`

	// Cited rule (reference only, never interpreted)
	CourtRuleID *string    `gorm:"type:uuid" json:"court_rule_id,omitempty"`
	CourtRule   *CourtRule `gorm:"foreignKey:CourtRuleID" json:"court_rule,omitempty"`

	// Calculation parameters
	TimeLimit         int    `gorm:"not null" json:"time_limit"`
	TimeLimitUnit     string `gorm:"not null;default:DAYS" json:"time_limit_unit"`
	CalculationMethod string `gorm:"not null;default:CALENDAR_DAYS" json:"calculation_method"`
	IncludeWeekends   bool   `gorm:"not null;default:false" json:"include_weekends"`
	IncludeHolidays   bool   `gorm:"not null;default:false" json:"include_holidays"`
	BusinessDaysOnly  bool   `gorm:"not null;default:false" json:"business_days_only"`
	CustomStrategy    string `json:"custom_strategy,omitempty"` // strategy name for CUSTOM method

	// Reminder offsets in days before the due date, JSON encoded (e.g. "[30,14,7,1]")
	ReminderDays string `gorm:"type:text;default:'[]'" json:"reminder_days"`

	Priority      string `gorm:"not null;default:MEDIUM" json:"priority"`
	IsExtendable  bool   `gorm:"not null;default:false" json:"is_extendable"`
	MaxExtensions int    `gorm:"not null;default:0" json:"max_extensions"`
	// No column default: GORM drops zero-value fields from the INSERT when a
	// default tag is present, and a template created inactive must stay
	// inactive. The create handler supplies the active-by-default behavior.
	IsActive bool `gorm:"not null" json:"is_active"`
}

// BeforeCreate hook to generate UUID
func (t *DeadlineTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.ReminderDays == "" {
		t.ReminderDays = "[]"
	}
	return nil
}

// TableName specifies the table name for DeadlineTemplate model
func (DeadlineTemplate) TableName() string {
	return "deadline_templates"
}

// IsUniversal reports whether the template matches regardless of jurisdiction
func (t *DeadlineTemplate) IsUniversal() bool {
	return t.JurisdictionID == nil
}

// ReminderOffsets decodes ReminderDays into a descending-ordered slice.
// Malformed JSON yields an empty slice rather than an error; reminder
// offsets are advisory, never calculation inputs.
func (t *DeadlineTemplate) ReminderOffsets() []int {
	var offsets []int
	if err := json.Unmarshal([]byte(t.ReminderDays), &offsets); err != nil {
		return nil
	}
	sort.Sort(sort.Reverse(sort.IntSlice(offsets)))
	return offsets
}

// SetReminderOffsets encodes the given day offsets into ReminderDays
func (t *DeadlineTemplate) SetReminderOffsets(offsets []int) {
	if offsets == nil {
		offsets = []int{}
	}
	encoded, _ := json.Marshal(offsets)
	t.ReminderDays = string(encoded)
}
