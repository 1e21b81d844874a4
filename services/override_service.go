package services

import (
	"deadline_flow_go/models"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Override-related errors
var (
	ErrDeadlineNotFound  = errors.New("automated deadline not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// OverrideInput is a manual correction to an automated deadline. Reason is
// mandatory: every override must be defensible.
type OverrideInput struct {
	NewDueDate   *time.Time `json:"new_due_date,omitempty"`
	Status       string     `json:"status,omitempty"`
	Reason       string     `json:"reason"`
	Notes        string     `json:"notes,omitempty"`
	OverriddenBy string     `json:"overridden_by,omitempty"`
}

// OverrideDeadline applies a manual correction: marks the deadline as
// overridden, optionally moves the due date and/or sets a terminal status,
// propagates the status to the linked Deadline, and appends a fresh
// DeadlineCalculation snapshot whenever the due date changes. The original
// snapshots are never touched, so the audit trail shows the computation and
// the correction side by side.
func OverrideDeadline(db *gorm.DB, automatedDeadlineID string, input OverrideInput) (*models.AutomatedDeadline, error) {
	if input.Reason == "" {
		return nil, fmt.Errorf("%w: override reason is required", ErrValidation)
	}

	var automated models.AutomatedDeadline
	err := db.Preload("Template").Preload("Deadline").
		First(&automated, "id = ?", automatedDeadlineID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeadlineNotFound
		}
		return nil, err
	}

	if input.Status != "" {
		if err := validateOverrideStatus(&automated, input.Status); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	err = db.Transaction(func(tx *gorm.DB) error {
		dueDateChanged := input.NewDueDate != nil && !input.NewDueDate.Equal(automated.DueDate)

		automated.IsManualOverride = true
		automated.OverrideReason = &input.Reason
		automated.OverriddenAt = &now
		if input.OverriddenBy != "" {
			automated.OverriddenBy = &input.OverriddenBy
		}
		automated.Notes = appendOverrideNote(automated.Notes, now, input)

		if dueDateChanged {
			automated.DueDate = *input.NewDueDate
			automated.ActualDays = elapsedCalendarDays(automated.TriggerDate, automated.DueDate)
		}

		if input.Status != "" {
			automated.Status = input.Status
			if input.Status == models.DeadlineStatusExtended {
				automated.ExtensionCount++
			}
		}

		if err := tx.Save(&automated).Error; err != nil {
			return err
		}

		if err := propagateToDeadline(tx, &automated, input, now); err != nil {
			return err
		}

		if dueDateChanged {
			calcInput := CalculationInput{
				TriggerDate:       automated.TriggerDate,
				TimeLimit:         automated.Template.TimeLimit,
				TimeLimitUnit:     automated.Template.TimeLimitUnit,
				CalculationMethod: automated.Template.CalculationMethod,
				IncludeWeekends:   automated.Template.IncludeWeekends,
				IncludeHolidays:   automated.Template.IncludeHolidays,
				BusinessDaysOnly:  automated.Template.BusinessDaysOnly,
				CustomStrategy:    automated.Template.CustomStrategy,
				JurisdictionID:    jurisdictionOf(tx, automated.CaseID),
			}
			calc := CalculationResult{
				CalculatedDate: automated.DueDate,
				ActualDays:     automated.ActualDays,
			}
			var recordedBy *string
			if input.OverriddenBy != "" {
				recordedBy = &input.OverriddenBy
			}
			if err := recordCalculation(tx, &automated, &automated.Template, calcInput, calc, models.CalculationReasonOverride, recordedBy); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &automated, nil
}

func validateOverrideStatus(automated *models.AutomatedDeadline, status string) error {
	switch status {
	case models.DeadlineStatusCompleted, models.DeadlineStatusCompletedLate,
		models.DeadlineStatusWaived, models.DeadlineStatusCancelled:
		if !automated.IsOpen() {
			return fmt.Errorf("%w: deadline already %s", ErrInvalidTransition, automated.Status)
		}
	case models.DeadlineStatusExtended:
		if !automated.IsOpen() && automated.Status != models.DeadlineStatusExtended {
			return fmt.Errorf("%w: deadline already %s", ErrInvalidTransition, automated.Status)
		}
		if !automated.Template.IsExtendable {
			return fmt.Errorf("%w: template does not allow extensions", ErrInvalidTransition)
		}
		if automated.ExtensionCount >= automated.Template.MaxExtensions {
			return fmt.Errorf("%w: extension limit of %d reached", ErrInvalidTransition, automated.Template.MaxExtensions)
		}
	case models.DeadlineStatusPending:
		// Reopening is allowed only via override, back to the derived states
	default:
		return fmt.Errorf("%w: status %q cannot be set manually", ErrInvalidTransition, status)
	}
	return nil
}

// propagateToDeadline keeps the downstream shared record in sync
func propagateToDeadline(tx *gorm.DB, automated *models.AutomatedDeadline, input OverrideInput, now time.Time) error {
	updates := map[string]interface{}{
		"due_date": automated.DueDate,
	}

	switch automated.Status {
	case models.DeadlineStatusCompleted, models.DeadlineStatusCompletedLate:
		updates["status"] = models.DownstreamStatusCompleted
		updates["completed_at"] = now
		if input.OverriddenBy != "" {
			updates["completed_by"] = input.OverriddenBy
		}
	case models.DeadlineStatusCancelled, models.DeadlineStatusWaived:
		updates["status"] = models.DownstreamStatusCancelled
	default:
		updates["status"] = models.DownstreamStatusPending
	}

	return tx.Model(&models.Deadline{}).
		Where("id = ?", automated.DeadlineID).
		Updates(updates).Error
}

func appendOverrideNote(existing string, at time.Time, input OverrideInput) string {
	note := fmt.Sprintf("[%s] Manual override", at.Format("2006-01-02 15:04"))
	if input.OverriddenBy != "" {
		note += " by " + input.OverriddenBy
	}
	note += ": " + input.Reason
	if input.Notes != "" {
		note += " - " + input.Notes
	}
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}

func jurisdictionOf(tx *gorm.DB, caseID string) string {
	var ref models.CaseRef
	if err := tx.First(&ref, "id = ?", caseID).Error; err != nil {
		return ""
	}
	return ref.JurisdictionID
}

// GetCalculationHistory returns every calculation snapshot for a deadline in
// sequence order, oldest first
func GetCalculationHistory(db *gorm.DB, automatedDeadlineID string) ([]models.DeadlineCalculation, error) {
	var calculations []models.DeadlineCalculation
	err := db.Where("automated_deadline_id = ?", automatedDeadlineID).
		Order("seq ASC").
		Find(&calculations).Error
	return calculations, err
}

// GetAutomatedDeadlineByID retrieves one automated deadline with its
// template and downstream record
func GetAutomatedDeadlineByID(db *gorm.DB, id string) (*models.AutomatedDeadline, error) {
	var automated models.AutomatedDeadline
	err := db.Preload("Template").Preload("Deadline").Preload("Case").
		First(&automated, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeadlineNotFound
		}
		return nil, err
	}
	return &automated, nil
}

// DeadlineFilters contains the filter options for deadline listing
type DeadlineFilters struct {
	CaseID   string
	Status   string
	DueAfter time.Time
	DueUntil time.Time
}

// ListAutomatedDeadlines returns deadlines matching the given filters
func ListAutomatedDeadlines(db *gorm.DB, filters DeadlineFilters) ([]models.AutomatedDeadline, error) {
	query := db.Model(&models.AutomatedDeadline{}).Preload("Template").Preload("Deadline")

	if filters.CaseID != "" {
		query = query.Where("case_id = ?", filters.CaseID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if !filters.DueAfter.IsZero() {
		query = query.Where("due_date >= ?", filters.DueAfter)
	}
	if !filters.DueUntil.IsZero() {
		query = query.Where("due_date <= ?", filters.DueUntil)
	}

	var deadlines []models.AutomatedDeadline
	err := query.Order("due_date ASC").Find(&deadlines).Error
	return deadlines, err
}
