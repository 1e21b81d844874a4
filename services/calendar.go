package services

import (
	"deadline_flow_go/models"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Calendar-related errors
var (
	ErrJurisdictionNotFound = errors.New("jurisdiction not found")
)

// CalendarSnapshot is an immutable view of one jurisdiction's holiday sets,
// loaded once per calculation so concurrent holiday edits cannot cause
// read-skew inside a single computation.
type CalendarSnapshot struct {
	JurisdictionID   string
	businessHolidays []models.Holiday
	courtHolidays    []models.Holiday
}

// LoadCalendarSnapshot reads the jurisdiction's holidays into a snapshot.
// Returns ErrJurisdictionNotFound for an unknown jurisdiction; the generator
// treats that as a per-template failure, not a global abort.
func LoadCalendarSnapshot(db *gorm.DB, jurisdictionID string) (*CalendarSnapshot, error) {
	var jurisdiction models.Jurisdiction
	if err := db.First(&jurisdiction, "id = ?", jurisdictionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJurisdictionNotFound
		}
		return nil, err
	}

	var holidays []models.Holiday
	if err := db.Where("jurisdiction_id = ?", jurisdictionID).Find(&holidays).Error; err != nil {
		return nil, err
	}

	snapshot := &CalendarSnapshot{JurisdictionID: jurisdictionID}
	for _, h := range holidays {
		if h.AppliesToBusiness {
			snapshot.businessHolidays = append(snapshot.businessHolidays, h)
		}
		if h.AppliesToCourt {
			snapshot.courtHolidays = append(snapshot.courtHolidays, h)
		}
	}

	return snapshot, nil
}

// IsWeekend reports whether the date falls on Saturday or Sunday
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsHoliday reports whether the date is a holiday on the general calendar
func (s *CalendarSnapshot) IsHoliday(date time.Time) bool {
	for i := range s.businessHolidays {
		if s.businessHolidays[i].Matches(date) {
			return true
		}
	}
	return false
}

// IsCourtHoliday reports whether the date is a holiday on the court calendar
func (s *CalendarSnapshot) IsCourtHoliday(date time.Time) bool {
	for i := range s.courtHolidays {
		if s.courtHolidays[i].Matches(date) {
			return true
		}
	}
	return false
}

// IsBusinessDay reports whether the date counts as a business day.
// includeWeekends treats Saturday/Sunday as working days.
func (s *CalendarSnapshot) IsBusinessDay(date time.Time, includeWeekends bool) bool {
	if !includeWeekends && IsWeekend(date) {
		return false
	}
	return !s.IsHoliday(date)
}

// IsCourtDay reports whether the court is open on the date
func (s *CalendarSnapshot) IsCourtDay(date time.Time) bool {
	if IsWeekend(date) {
		return false
	}
	return !s.IsCourtHoliday(date)
}
