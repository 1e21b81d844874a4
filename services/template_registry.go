package services

import (
	"deadline_flow_go/models"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Template-related errors
var (
	ErrTemplateNotFound = errors.New("deadline template not found")
	ErrTemplateInvalid  = errors.New("invalid deadline template")
)

// FindMatchingTemplates returns the union of active templates bound to the
// given jurisdiction and universal templates (nil jurisdiction) for the
// trigger event. Both kinds may match at once: one trigger deliberately fans
// out into one deadline per matching template. An empty result is a valid
// outcome, not an error.
func FindMatchingTemplates(db *gorm.DB, triggerEvent, jurisdictionID string) ([]models.DeadlineTemplate, error) {
	var templates []models.DeadlineTemplate
	err := db.Where("trigger_event = ? AND is_active = ?", triggerEvent, true).
		Where("jurisdiction_id = ? OR jurisdiction_id IS NULL", jurisdictionID).
		Order("created_at ASC").
		Find(&templates).Error
	return templates, err
}

// GetTemplateByID retrieves a template by ID
func GetTemplateByID(db *gorm.DB, templateID string) (*models.DeadlineTemplate, error) {
	var template models.DeadlineTemplate
	err := db.Preload("Jurisdiction").Preload("CourtRule").
		First(&template, "id = ?", templateID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &template, nil
}

// TemplateFilters contains the filter options for template listing. Each
// query shape gets an explicit field; there is no pass-through of raw
// filter maps.
type TemplateFilters struct {
	TriggerEvent   string
	JurisdictionID string
	UniversalOnly  bool
	ActiveOnly     bool
}

// ListTemplates returns templates matching the given filters
func ListTemplates(db *gorm.DB, filters TemplateFilters) ([]models.DeadlineTemplate, error) {
	query := db.Model(&models.DeadlineTemplate{}).Preload("Jurisdiction")

	if filters.TriggerEvent != "" {
		query = query.Where("trigger_event = ?", filters.TriggerEvent)
	}
	if filters.UniversalOnly {
		query = query.Where("jurisdiction_id IS NULL")
	} else if filters.JurisdictionID != "" {
		query = query.Where("jurisdiction_id = ?", filters.JurisdictionID)
	}
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var templates []models.DeadlineTemplate
	err := query.Order("created_at ASC").Find(&templates).Error
	return templates, err
}

// ValidateTemplate checks a template's calculation parameters before it is
// persisted. Validation failures here mean the admin input is wrong, never
// that a calculation failed.
func ValidateTemplate(template *models.DeadlineTemplate) error {
	if template.Name == "" {
		return fmt.Errorf("%w: name is required", ErrTemplateInvalid)
	}
	if !models.KnownTriggerEvent(template.TriggerEvent) {
		return fmt.Errorf("%w: unknown trigger event %q", ErrTemplateInvalid, template.TriggerEvent)
	}
	if template.TimeLimit <= 0 {
		return fmt.Errorf("%w: time limit must be positive", ErrTemplateInvalid)
	}
	if !models.KnownTimeLimitUnit(template.TimeLimitUnit) {
		return fmt.Errorf("%w: unknown time limit unit %q", ErrTemplateInvalid, template.TimeLimitUnit)
	}
	if !models.KnownCalculationMethod(template.CalculationMethod) {
		return fmt.Errorf("%w: unknown calculation method %q", ErrTemplateInvalid, template.CalculationMethod)
	}
	if template.CalculationMethod == models.MethodCustom && template.CustomStrategy == "" {
		return fmt.Errorf("%w: custom method requires a strategy name", ErrTemplateInvalid)
	}
	if template.MaxExtensions < 0 {
		return fmt.Errorf("%w: max extensions cannot be negative", ErrTemplateInvalid)
	}
	return nil
}

// CreateTemplate validates and persists a new template
func CreateTemplate(db *gorm.DB, template *models.DeadlineTemplate) error {
	if err := ValidateTemplate(template); err != nil {
		return err
	}
	return db.Create(template).Error
}

// UpdateTemplate validates and saves changes to an existing template.
// Running calculations are unaffected: they operate on the parameter
// snapshot taken at trigger time.
func UpdateTemplate(db *gorm.DB, template *models.DeadlineTemplate) error {
	if err := ValidateTemplate(template); err != nil {
		return err
	}
	return db.Save(template).Error
}

// DeactivateTemplate retires a template from matching without deleting it;
// historical deadlines keep their reference
func DeactivateTemplate(db *gorm.DB, templateID string) error {
	result := db.Model(&models.DeadlineTemplate{}).
		Where("id = ?", templateID).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
