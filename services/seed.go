package services

import (
	"deadline_flow_go/models"
	"log"
	"time"

	"gorm.io/gorm"
)

// SeedReferenceData creates a default jurisdiction with its holiday calendar
// and a starter template set. Idempotent: skips if the jurisdiction exists.
func SeedReferenceData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Jurisdiction{}).Where("code = ?", "US-FED").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("[SEED] Reference data already present, skipping seed")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		federal := models.Jurisdiction{Name: "United States Federal Courts", Code: "US-FED"}
		if err := tx.Create(&federal).Error; err != nil {
			return err
		}

		// Fixed-date federal holidays recur yearly; floating ones
		// (Thanksgiving, MLK Day, etc.) are dated per year by the admin
		// import because their dates move
		holidays := []models.Holiday{
			{JurisdictionID: federal.ID, Label: "New Year's Day", Date: date(2024, time.January, 1), IsRecurringYearly: true},
			{JurisdictionID: federal.ID, Label: "Juneteenth", Date: date(2024, time.June, 19), IsRecurringYearly: true},
			{JurisdictionID: federal.ID, Label: "Independence Day", Date: date(2024, time.July, 4), IsRecurringYearly: true},
			{JurisdictionID: federal.ID, Label: "Veterans Day", Date: date(2024, time.November, 11), IsRecurringYearly: true},
			{JurisdictionID: federal.ID, Label: "Christmas Day", Date: date(2024, time.December, 25), IsRecurringYearly: true},
			{JurisdictionID: federal.ID, Label: "Thanksgiving Day", Date: date(2024, time.November, 28)},
			{JurisdictionID: federal.ID, Label: "Thanksgiving Day", Date: date(2025, time.November, 27)},
			{JurisdictionID: federal.ID, Label: "Thanksgiving Day", Date: date(2026, time.November, 26)},
		}
		for i := range holidays {
			holidays[i].AppliesToCourt = true
			holidays[i].AppliesToBusiness = true
			if err := tx.Create(&holidays[i]).Error; err != nil {
				return err
			}
		}

		answerRule := models.CourtRule{
			JurisdictionID: federal.ID,
			RuleNumber:     "FRCP 12(a)(1)(A)",
			Title:          "Time to Serve a Responsive Pleading",
		}
		if err := tx.Create(&answerRule).Error; err != nil {
			return err
		}

		templates := []models.DeadlineTemplate{
			{
				Name:              "Answer to Complaint",
				TriggerEvent:      models.TriggerServiceCompleted,
				JurisdictionID:    &federal.ID,
				CourtRuleID:       &answerRule.ID,
				TimeLimit:         21,
				TimeLimitUnit:     models.UnitDays,
				CalculationMethod: models.MethodCalendarDays,
				Priority:          models.PriorityCritical,
			},
			{
				Name:              "Responses to Discovery Requests",
				TriggerEvent:      models.TriggerDiscoveryServed,
				JurisdictionID:    &federal.ID,
				TimeLimit:         30,
				TimeLimitUnit:     models.UnitDays,
				CalculationMethod: models.MethodCalendarDays,
				Priority:          models.PriorityHigh,
			},
			{
				Name:              "Opposition to Motion",
				TriggerEvent:      models.TriggerMotionFiled,
				JurisdictionID:    &federal.ID,
				TimeLimit:         14,
				TimeLimitUnit:     models.UnitDays,
				CalculationMethod: models.MethodBusinessDays,
				Priority:          models.PriorityHigh,
			},
			{
				Name:              "Notice of Appeal",
				TriggerEvent:      models.TriggerJudgmentEntered,
				JurisdictionID:    &federal.ID,
				TimeLimit:         30,
				TimeLimitUnit:     models.UnitDays,
				CalculationMethod: models.MethodCalendarDays,
				Priority:          models.PriorityCritical,
			},
			{
				// Universal template: matches triggers in every jurisdiction
				Name:              "Initial Case Review",
				TriggerEvent:      models.TriggerCaseFiled,
				TimeLimit:         14,
				TimeLimitUnit:     models.UnitDays,
				CalculationMethod: models.MethodCalendarDays,
				Priority:          models.PriorityMedium,
			},
		}
		for i := range templates {
			templates[i].SetReminderOffsets([]int{14, 7, 1})
			templates[i].IsActive = true
			if err := tx.Create(&templates[i]).Error; err != nil {
				return err
			}
		}

		log.Printf("[SEED] Created jurisdiction %s with %d holidays and %d templates",
			federal.Code, len(holidays), len(templates))
		return nil
	})
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
