package services

import (
	"deadline_flow_go/models"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Jurisdiction admin errors
var (
	ErrDuplicateHoliday      = errors.New("holiday already exists for that date")
	ErrDuplicateJurisdiction = errors.New("jurisdiction code already in use")
)

// CreateJurisdiction persists a new jurisdiction with a unique code
func CreateJurisdiction(db *gorm.DB, jurisdiction *models.Jurisdiction) error {
	if jurisdiction.Name == "" || jurisdiction.Code == "" {
		return fmt.Errorf("%w: name and code are required", ErrValidation)
	}

	var count int64
	if err := db.Model(&models.Jurisdiction{}).Where("code = ?", jurisdiction.Code).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateJurisdiction
	}

	return db.Create(jurisdiction).Error
}

// GetJurisdictionByID retrieves a jurisdiction by ID
func GetJurisdictionByID(db *gorm.DB, id string) (*models.Jurisdiction, error) {
	var jurisdiction models.Jurisdiction
	err := db.First(&jurisdiction, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJurisdictionNotFound
		}
		return nil, err
	}
	return &jurisdiction, nil
}

// GetJurisdictionByCode retrieves a jurisdiction by its code
func GetJurisdictionByCode(db *gorm.DB, code string) (*models.Jurisdiction, error) {
	var jurisdiction models.Jurisdiction
	err := db.First(&jurisdiction, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJurisdictionNotFound
		}
		return nil, err
	}
	return &jurisdiction, nil
}

// ListJurisdictions returns all jurisdictions ordered by code
func ListJurisdictions(db *gorm.DB) ([]models.Jurisdiction, error) {
	var jurisdictions []models.Jurisdiction
	err := db.Order("code ASC").Find(&jurisdictions).Error
	return jurisdictions, err
}

// AddHoliday adds a holiday to a jurisdiction's calendar, enforcing the
// one-occurrence-per-date invariant
func AddHoliday(db *gorm.DB, holiday *models.Holiday) error {
	if holiday.Label == "" {
		return fmt.Errorf("%w: holiday label is required", ErrValidation)
	}
	if holiday.Date.IsZero() {
		return fmt.Errorf("%w: holiday date is required", ErrValidation)
	}

	if _, err := GetJurisdictionByID(db, holiday.JurisdictionID); err != nil {
		return err
	}

	holiday.Date = models.NormalizeDate(holiday.Date)

	var count int64
	err := db.Model(&models.Holiday{}).
		Where("jurisdiction_id = ? AND date = ? AND applies_to_court = ?",
			holiday.JurisdictionID, holiday.Date, holiday.AppliesToCourt).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateHoliday
	}

	return db.Create(holiday).Error
}

// RemoveHoliday deletes a holiday entry. Past calculations are unaffected:
// they ran against their own calendar snapshot.
func RemoveHoliday(db *gorm.DB, holidayID string) error {
	result := db.Delete(&models.Holiday{}, "id = ?", holidayID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListHolidays returns a jurisdiction's holidays ordered by date
func ListHolidays(db *gorm.DB, jurisdictionID string) ([]models.Holiday, error) {
	if _, err := GetJurisdictionByID(db, jurisdictionID); err != nil {
		return nil, err
	}
	var holidays []models.Holiday
	err := db.Where("jurisdiction_id = ?", jurisdictionID).Order("date ASC").Find(&holidays).Error
	return holidays, err
}

// CreateCourtRule persists a statutory rule reference
func CreateCourtRule(db *gorm.DB, rule *models.CourtRule) error {
	if rule.RuleNumber == "" || rule.Title == "" {
		return fmt.Errorf("%w: rule number and title are required", ErrValidation)
	}
	if _, err := GetJurisdictionByID(db, rule.JurisdictionID); err != nil {
		return err
	}
	return db.Create(rule).Error
}

// ListCourtRules returns a jurisdiction's rules ordered by rule number
func ListCourtRules(db *gorm.DB, jurisdictionID string) ([]models.CourtRule, error) {
	var rules []models.CourtRule
	err := db.Where("jurisdiction_id = ?", jurisdictionID).Order("rule_number ASC").Find(&rules).Error
	return rules, err
}
