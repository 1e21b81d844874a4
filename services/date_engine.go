package services

import (
	"deadline_flow_go/models"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Engine errors
var (
	ErrCalculationInvalid = errors.New("invalid calculation input")
	ErrUnsupportedUnit    = errors.New("unsupported time limit unit")
	ErrUnsupportedMethod  = errors.New("unsupported calculation method")
)

// CalculationInput carries every parameter that influences a due date.
// It is snapshotted verbatim into the DeadlineCalculation audit record.
type CalculationInput struct {
	TriggerDate       time.Time `json:"trigger_date"`
	TimeLimit         int       `json:"time_limit"`
	TimeLimitUnit     string    `json:"time_limit_unit"`
	CalculationMethod string    `json:"calculation_method"`
	IncludeWeekends   bool      `json:"include_weekends"`
	IncludeHolidays   bool      `json:"include_holidays"`
	BusinessDaysOnly  bool      `json:"business_days_only"`
	CustomStrategy    string    `json:"custom_strategy,omitempty"`
	JurisdictionID    string    `json:"jurisdiction_id"`

	// Landing-day policy: roll a CALENDAR_DAYS result forward to the next
	// working day. Default-on at the call sites; BusinessDaysOnly forces it.
	RollForward bool `json:"roll_forward"`
}

// CalculationResult is the engine output
type CalculationResult struct {
	CalculatedDate time.Time `json:"calculated_date"`
	// Literal elapsed calendar days between trigger and result, independent
	// of method, recorded for audit display
	ActualDays int `json:"actual_days"`
}

// CustomStrategy computes a due date for jurisdictions whose counting rules
// cannot be expressed by the built-in methods
type CustomStrategy func(input CalculationInput, cal *CalendarSnapshot) (time.Time, error)

var (
	customStrategiesMu sync.RWMutex
	customStrategies   = map[string]CustomStrategy{}
)

// RegisterCustomStrategy registers a named strategy for the CUSTOM method.
// Registration happens at startup; ComputeDueDate only reads the registry.
func RegisterCustomStrategy(name string, strategy CustomStrategy) {
	customStrategiesMu.Lock()
	defer customStrategiesMu.Unlock()
	customStrategies[name] = strategy
}

func lookupCustomStrategy(name string) (CustomStrategy, bool) {
	customStrategiesMu.RLock()
	defer customStrategiesMu.RUnlock()
	s, ok := customStrategies[name]
	return s, ok
}

// ComputeDueDate is the date arithmetic core: a pure function from inputs to
// a due date. No side effects and no I/O; the calendar snapshot is loaded by
// the caller. Identical inputs always yield identical results.
func ComputeDueDate(input CalculationInput, cal *CalendarSnapshot) (CalculationResult, error) {
	if input.TimeLimit <= 0 {
		return CalculationResult{}, fmt.Errorf("%w: time limit must be positive, got %d", ErrCalculationInvalid, input.TimeLimit)
	}
	if input.TriggerDate.IsZero() {
		return CalculationResult{}, fmt.Errorf("%w: trigger date is required", ErrCalculationInvalid)
	}
	if !models.KnownTimeLimitUnit(input.TimeLimitUnit) {
		return CalculationResult{}, fmt.Errorf("%w: %q", ErrUnsupportedUnit, input.TimeLimitUnit)
	}
	if cal == nil {
		return CalculationResult{}, fmt.Errorf("%w: calendar snapshot is required", ErrCalculationInvalid)
	}

	// Sub-day units are plain duration addition for the built-in methods;
	// day-class logic does not apply. The method must still check out first,
	// and custom strategies own their handling of sub-day inputs.
	if input.CalculationMethod != models.MethodCustom {
		if !models.KnownCalculationMethod(input.CalculationMethod) {
			return CalculationResult{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, input.CalculationMethod)
		}
		switch input.TimeLimitUnit {
		case models.UnitMinutes:
			return resultFor(input.TriggerDate, input.TriggerDate.Add(time.Duration(input.TimeLimit)*time.Minute)), nil
		case models.UnitHours:
			return resultFor(input.TriggerDate, input.TriggerDate.Add(time.Duration(input.TimeLimit)*time.Hour)), nil
		}
	}

	var due time.Time
	var err error

	switch input.CalculationMethod {
	case models.MethodCalendarDays:
		due, err = computeCalendarDays(input, cal)
	case models.MethodBusinessDays:
		due, err = computeDayWalk(input, func(d time.Time) bool {
			if IsWeekend(d) {
				return false
			}
			return input.IncludeHolidays || !cal.IsHoliday(d)
		})
	case models.MethodCourtDays:
		due, err = computeDayWalk(input, func(d time.Time) bool {
			if IsWeekend(d) {
				return false
			}
			return input.IncludeHolidays || !cal.IsCourtHoliday(d)
		})
	case models.MethodCustom:
		strategy, ok := lookupCustomStrategy(input.CustomStrategy)
		if !ok {
			return CalculationResult{}, fmt.Errorf("%w: unknown custom strategy %q", ErrUnsupportedMethod, input.CustomStrategy)
		}
		due, err = strategy(input, cal)
	default:
		return CalculationResult{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, input.CalculationMethod)
	}

	if err != nil {
		return CalculationResult{}, err
	}

	return resultFor(input.TriggerDate, due), nil
}

// computeCalendarDays adds the converted duration directly, then applies the
// landing-day policy: results falling on a non-working day roll forward to
// the next one. The include* flags refine which landing days are acceptable.
func computeCalendarDays(input CalculationInput, cal *CalendarSnapshot) (time.Time, error) {
	var due time.Time
	switch input.TimeLimitUnit {
	case models.UnitDays:
		due = input.TriggerDate.AddDate(0, 0, input.TimeLimit)
	case models.UnitWeeks:
		due = input.TriggerDate.AddDate(0, 0, input.TimeLimit*7)
	case models.UnitMonths:
		due = addMonthsClamped(input.TriggerDate, input.TimeLimit)
	case models.UnitYears:
		due = addMonthsClamped(input.TriggerDate, input.TimeLimit*12)
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedUnit, input.TimeLimitUnit)
	}

	if input.RollForward || input.BusinessDaysOnly {
		for !acceptableLanding(due, input, cal) {
			due = due.AddDate(0, 0, 1)
		}
	}

	return due, nil
}

// acceptableLanding decides whether a CALENDAR_DAYS result may rest on the
// given day under the roll-forward policy
func acceptableLanding(date time.Time, input CalculationInput, cal *CalendarSnapshot) bool {
	if IsWeekend(date) && !input.IncludeWeekends {
		return false
	}
	if cal.IsHoliday(date) && !input.IncludeHolidays {
		return false
	}
	return true
}

// computeDayWalk walks forward day by day until timeLimit countable days
// have elapsed. Weekends never count: the method defines the day class, and
// the IncludeWeekends flag must not silently override it.
func computeDayWalk(input CalculationInput, countable func(time.Time) bool) (time.Time, error) {
	var count int
	switch input.TimeLimitUnit {
	case models.UnitDays:
		count = input.TimeLimit
	case models.UnitWeeks:
		count = input.TimeLimit * 7
	case models.UnitMonths, models.UnitYears:
		// Month/year limits are calendar-aware additions; land them, then
		// advance to the next countable day
		months := input.TimeLimit
		if input.TimeLimitUnit == models.UnitYears {
			months *= 12
		}
		due := addMonthsClamped(input.TriggerDate, months)
		for !countable(due) {
			due = due.AddDate(0, 0, 1)
		}
		return due, nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedUnit, input.TimeLimitUnit)
	}

	due := input.TriggerDate
	for counted := 0; counted < count; {
		due = due.AddDate(0, 0, 1)
		if countable(due) {
			counted++
		}
	}
	return due, nil
}

// addMonthsClamped performs calendar-aware month addition with day-of-month
// clamping: Jan 31 + 1 month lands on the last day of February, not March.
// Go's AddDate would normalize the overflow instead.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	hour, min, sec := t.Clock()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func resultFor(trigger, due time.Time) CalculationResult {
	return CalculationResult{
		CalculatedDate: due,
		ActualDays:     elapsedCalendarDays(trigger, due),
	}
}

// elapsedCalendarDays counts whole calendar days between two instants,
// ignoring clock time
func elapsedCalendarDays(from, to time.Time) int {
	f := models.NormalizeDate(from)
	t := models.NormalizeDate(to)
	return int(t.Sub(f).Hours() / 24)
}
