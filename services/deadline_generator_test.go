package services

import (
	"deadline_flow_go/models"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func defaultOptions() GeneratorOptions {
	return GeneratorOptions{RollForwardLandingDays: true}
}

func resolverFor(database *gorm.DB) *CaseRefResolver {
	return &CaseRefResolver{DB: database}
}

func TestGenerateDeadlinesFanOut(t *testing.T) {
	database := setupTestDB(t)
	jurisdiction := createTestJurisdiction(t, database, "TEST-GEN")
	caseRef := createTestCase(t, database, jurisdiction.ID, "2024-CV-0001")

	bound := createTestTemplate(t, database, "Answer Deadline", models.TriggerCaseFiled, &jurisdiction.ID, 10)
	universal := createTestTemplate(t, database, "Initial Review", models.TriggerCaseFiled, nil, 30)

	input := TriggerInput{
		CaseID:       caseRef.ID,
		TriggerEvent: models.TriggerCaseFiled,
		TriggerDate:  utcDate(2024, 1, 1),
	}

	result, err := GenerateDeadlines(database, resolverFor(database), defaultOptions(), input)
	assert.NoError(t, err)
	assert.Len(t, result.Generated, 2)
	assert.Empty(t, result.Skipped)
	assert.Empty(t, result.Errors)

	byTemplate := map[string]models.AutomatedDeadline{}
	for _, d := range result.Generated {
		byTemplate[d.TemplateID] = d
	}
	assert.Equal(t, utcDate(2024, 1, 11), byTemplate[bound.ID].DueDate)
	assert.Equal(t, utcDate(2024, 1, 31), byTemplate[universal.ID].DueDate)

	// Each automated deadline gets a downstream Deadline and an audit snapshot
	var deadlineCount, calcCount int64
	assert.NoError(t, database.Model(&models.Deadline{}).Count(&deadlineCount).Error)
	assert.NoError(t, database.Model(&models.DeadlineCalculation{}).Count(&calcCount).Error)
	assert.Equal(t, int64(2), deadlineCount)
	assert.Equal(t, int64(2), calcCount)

	for _, d := range result.Generated {
		assert.Equal(t, models.DeadlineStatusPending, d.Status)
		assert.NotEmpty(t, d.DeadlineID)
	}
}

func TestGenerateDeadlinesNoMatchesIsSuccess(t *testing.T) {
	database := setupTestDB(t)
	jurisdiction := createTestJurisdiction(t, database, "TEST-NOMATCH")
	caseRef := createTestCase(t, database, jurisdiction.ID, "2024-CV-0002")

	result, err := GenerateDeadlines(database, resolverFor(database), defaultOptions(), TriggerInput{
		CaseID:       caseRef.ID,
		TriggerEvent: models.TriggerJudgmentEntered,
		TriggerDate:  utcDate(2024, 3, 1),
	})
	assert.NoError(t, err)
	assert.Empty(t, result.Generated)
	assert.Empty(t, result.Errors)
}

func TestGenerateDeadlinesPartialFailure(t *testing.T) {
	database := setupTestDB(t)
	jurisdiction := createTestJurisdiction(t, database, "TEST-PARTIAL")
	caseRef := createTestCase(t, database, jurisdiction.ID, "2024-CV-0003")

	createTestTemplate(t, database, "Good One", models.TriggerMotionFiled, &jurisdiction.ID, 14)
	createTestTemplate(t, database, "Good Two", models.TriggerMotionFiled, nil, 7)

	// Strategy was registered elsewhere, never here: computation will fail
	bad := &models.DeadlineTemplate{
		Name:              "Broken Custom",
		TriggerEvent:      models.TriggerMotionFiled,
		JurisdictionID:    &jurisdiction.ID,
		TimeLimit:         5,
		TimeLimitUnit:     models.UnitDays,
		CalculationMethod: models.MethodCustom,
		CustomStrategy:    "unregistered-strategy",
		Priority:          models.PriorityHigh,
		IsActive:          true,
	}
	assert.NoError(t, CreateTemplate(database, bad))

	result, err := GenerateDeadlines(database, resolverFor(database), defaultOptions(), TriggerInput{
		CaseID:       caseRef.ID,
		TriggerEvent: models.TriggerMotionFiled,
		TriggerDate:  utcDate(2024, 2, 1),
	})
	assert.NoError(t, err)
	assert.Len(t, result.Generated, 2)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, bad.ID, result.Errors[0].TemplateID)
	assert.Equal(t, "Broken Custom", result.Errors[0].TemplateName)
	assert.Contains(t, result.Errors[0].Message, "unregistered-strategy")
}

func TestGenerateDeadlinesRollsBackWithoutAuditRecord(t *testing.T) {
	// Migrate everything except the calculation table so the audit write
	// fails after the deadline pair was created inside the transaction
	dbName := "mem_" + uuid.New().String()
	database, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, database.AutoMigrate(
		&models.Jurisdiction{},
		&models.Holiday{},
		&models.DeadlineTemplate{},
		&models.CaseRef{},
		&models.Deadline{},
		&models.AutomatedDeadline{},
		&models.SequenceCounter{},
	))

	jurisdiction := createTestJurisdiction(t, database, "TEST-ROLLBACK")
	caseRef := createTestCase(t, database, jurisdiction.ID, "2024-CV-0004")
	createTestTemplate(t, database, "Doomed", models.TriggerCaseFiled, &jurisdiction.ID, 10)

	result, err := GenerateDeadlines(database, resolverFor(database), defaultOptions(), TriggerInput{
		CaseID:       caseRef.ID,
		TriggerEvent: models.TriggerCaseFiled,
		TriggerDate:  utcDate(2024, 1, 1),
	})
	assert.NoError(t, err)
	assert.Empty(t, result.Generated)
	assert.Len(t, result.Errors, 1)

	// The whole unit rolled back: no orphaned deadline pair survives
	var automatedCount, deadlineCount int64
	assert.NoError(t, database.Model(&models.AutomatedDeadline{}).Count(&automatedCount).Error)
	assert.NoError(t, database.Model(&models.Deadline{}).Count(&deadlineCount).Error)
	assert.Equal(t, int64(0), automatedCount)
	assert.Equal(t, int64(0), deadlineCount)
}

func TestGenerateDeadlinesIdempotentRetrigger(t *testing.T) {
	database := setupTestDB(t)
	jurisdiction := createTestJurisdiction(t, database, "TEST-IDEM")
	caseRef := createTestCase(t, database, jurisdiction.ID, "2024-CV-0005")
	template := createTestTemplate(t, database, "Once Only", models.TriggerCaseFiled, &jurisdiction.ID, 10)

	input := TriggerInput{
		CaseID:       caseRef.ID,
		TriggerEvent: models.TriggerCaseFiled,
		TriggerDate:  utcDate(2024, 1, 1),
	}

	first, err := GenerateDeadlines(database, resolverFor(database), defaultOptions(), input)
	assert.NoError(t, err)
	assert.Len(t, first.Generated, 1)

	second, err := GenerateDeadlines(database, resolverFor(database), defaultOptions(), input)
	assert.NoError(t, err)
	assert.Empty(t, second.Generated)
	assert.Equal(t, []string{template.ID}, second.Skipped)

	// A different trigger date is a new logical trigger
	input.TriggerDate = utcDate(2024, 1, 2)
	third, err := GenerateDeadlines(database, resolverFor(database), defaultOptions(), input)
	assert.NoError(t, err)
	assert.Len(t, third.Generated, 1)
}

func TestGenerateDeadlinesValidation(t *testing.T) {
	database := setupTestDB(t)
	jurisdiction := createTestJurisdiction(t, database, "TEST-VALID")
	caseRef := createTestCase(t, database, jurisdiction.ID, "2024-CV-0006")

	valid := TriggerInput{
		CaseID:       caseRef.ID,
		TriggerEvent: models.TriggerCaseFiled,
		TriggerDate:  utcDate(2024, 1, 1),
	}

	tests := []struct {
		name   string
		mutate func(*TriggerInput)
	}{
		{"Missing case id", func(i *TriggerInput) { i.CaseID = "" }},
		{"Missing trigger event", func(i *TriggerInput) { i.TriggerEvent = "" }},
		{"Unknown trigger event", func(i *TriggerInput) { i.TriggerEvent = "CASE_SETTLED" }},
		{"Missing trigger date", func(i *TriggerInput) { i.TriggerDate = time.Time{} }},
		{"Custom event without name", func(i *TriggerInput) { i.TriggerEvent = models.TriggerCustomEvent }},
		{"Unknown case", func(i *TriggerInput) { i.CaseID = "no-such-case" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			_, err := GenerateDeadlines(database, resolverFor(database), defaultOptions(), input)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestGenerateDeadlinesCustomEventTitle(t *testing.T) {
	database := setupTestDB(t)
	jurisdiction := createTestJurisdiction(t, database, "TEST-CUSTOM")
	caseRef := createTestCase(t, database, jurisdiction.ID, "2024-CV-0007")
	createTestTemplate(t, database, "Custom Followup", models.TriggerCustomEvent, &jurisdiction.ID, 7)

	result, err := GenerateDeadlines(database, resolverFor(database), defaultOptions(), TriggerInput{
		CaseID:          caseRef.ID,
		TriggerEvent:    models.TriggerCustomEvent,
		TriggerDate:     utcDate(2024, 4, 1),
		CustomEventName: "Mediation Ordered",
	})
	assert.NoError(t, err)
	assert.Len(t, result.Generated, 1)

	var deadline models.Deadline
	assert.NoError(t, database.First(&deadline, "id = ?", result.Generated[0].DeadlineID).Error)
	assert.Equal(t, "Custom Followup (Mediation Ordered)", deadline.Title)
}

func TestCalculationSequenceIncrements(t *testing.T) {
	database := setupTestDB(t)
	jurisdiction := createTestJurisdiction(t, database, "TEST-SEQ")
	caseRef := createTestCase(t, database, jurisdiction.ID, "2024-CV-0008")
	createTestTemplate(t, database, "First", models.TriggerCaseFiled, &jurisdiction.ID, 10)
	createTestTemplate(t, database, "Second", models.TriggerCaseFiled, &jurisdiction.ID, 20)

	_, err := GenerateDeadlines(database, resolverFor(database), defaultOptions(), TriggerInput{
		CaseID:       caseRef.ID,
		TriggerEvent: models.TriggerCaseFiled,
		TriggerDate:  utcDate(2024, 1, 1),
	})
	assert.NoError(t, err)

	var calcs []models.DeadlineCalculation
	assert.NoError(t, database.Order("seq ASC").Find(&calcs).Error)
	assert.Len(t, calcs, 2)
	assert.Equal(t, int64(1), calcs[0].Seq)
	assert.Equal(t, int64(2), calcs[1].Seq)
	assert.Equal(t, models.CalculationReasonInitial, calcs[0].Reason)
	assert.NotEmpty(t, calcs[0].Parameters)
}

func TestGenerateDeadlinesSkipsHolidaysInBusinessWalk(t *testing.T) {
	database := setupTestDB(t)
	jurisdiction := createTestJurisdiction(t, database, "TEST-HOL",
		models.Holiday{Date: utcDate(2024, 7, 4), Label: "Independence Day"})
	caseRef := createTestCase(t, database, jurisdiction.ID, "2024-CV-0009")

	template := &models.DeadlineTemplate{
		Name:              "Opposition Brief",
		TriggerEvent:      models.TriggerMotionFiled,
		JurisdictionID:    &jurisdiction.ID,
		TimeLimit:         1,
		TimeLimitUnit:     models.UnitDays,
		CalculationMethod: models.MethodBusinessDays,
		Priority:          models.PriorityHigh,
		IsActive:          true,
	}
	assert.NoError(t, CreateTemplate(database, template))

	result, err := GenerateDeadlines(database, resolverFor(database), defaultOptions(), TriggerInput{
		CaseID:       caseRef.ID,
		TriggerEvent: models.TriggerMotionFiled,
		TriggerDate:  utcDate(2024, 7, 3),
	})
	assert.NoError(t, err)
	assert.Len(t, result.Generated, 1)
	assert.Equal(t, utcDate(2024, 7, 5), result.Generated[0].DueDate)
	assert.Equal(t, 2, result.Generated[0].ActualDays)
}
