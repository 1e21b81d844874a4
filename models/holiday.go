package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Holiday represents a non-working day in a jurisdiction's calendar.
// Court holidays may diverge from the general calendar, so membership in the
// court calendar is tracked separately.
type Holiday struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	JurisdictionID string       `gorm:"type:uuid;not null;index;uniqueIndex:idx_holiday_occurrence" json:"jurisdiction_id"`
	Jurisdiction   Jurisdiction `gorm:"foreignKey:JurisdictionID" json:"jurisdiction,omitempty"`

	Date  time.Time `gorm:"type:date;not null;uniqueIndex:idx_holiday_occurrence" json:"date"`
	Label string    `gorm:"not null" json:"label"` // "Independence Day"

	// Recurring holidays repeat every year on the same month/day
	IsRecurringYearly bool `gorm:"not null;default:false" json:"is_recurring_yearly"`

	// Calendar membership. A holiday can close the courthouse without closing
	// businesses (court_only) or vice versa. No column defaults here: GORM
	// drops zero-value fields from the INSERT when a default tag is present,
	// and an explicit false must survive the insert. Callers that want the
	// both-calendars default set it themselves.
	AppliesToCourt    bool `gorm:"not null;uniqueIndex:idx_holiday_occurrence" json:"applies_to_court"`
	AppliesToBusiness bool `gorm:"not null" json:"applies_to_business"`
}

// BeforeCreate hook to generate UUID and normalize the date to midnight UTC
func (h *Holiday) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	h.Date = NormalizeDate(h.Date)
	return nil
}

// TableName specifies the table name for Holiday model
func (Holiday) TableName() string {
	return "holidays"
}

// Matches reports whether this holiday entry falls on the given date,
// honoring yearly recurrence
func (h *Holiday) Matches(date time.Time) bool {
	date = NormalizeDate(date)
	if h.IsRecurringYearly {
		return h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
	}
	return h.Date.Equal(date)
}

// NormalizeDate truncates a timestamp to midnight UTC so date comparisons
// ignore clock time and zone
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
