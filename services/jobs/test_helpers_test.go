package jobs

import (
	"deadline_flow_go/config"
	"deadline_flow_go/models"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.Jurisdiction{},
		&models.Holiday{},
		&models.DeadlineTemplate{},
		&models.CaseRef{},
		&models.Deadline{},
		&models.AutomatedDeadline{},
		&models.DeadlineCalculation{},
		&models.SequenceCounter{},
		&models.Notification{},
	)
	assert.NoError(t, err)

	return testDB
}

func testConfig() *config.Config {
	return &config.Config{
		AppURL:              "http://localhost:3000",
		DueSoonFallbackDays: 3,
	}
}

// createSweepDeadline persists a template and a pending automated deadline
// with a fixed due date, bypassing the generator for direct clock control
func createSweepDeadline(t *testing.T, database *gorm.DB, dueDate time.Time, reminderOffsets []int) *models.AutomatedDeadline {
	t.Helper()

	jurisdiction := models.Jurisdiction{Name: "Sweep Test", Code: "SWEEP-" + uuid.New().String()[:8]}
	assert.NoError(t, database.Create(&jurisdiction).Error)

	caseRef := models.CaseRef{CaseNumber: "SW-" + uuid.New().String()[:8], Title: "Sweep Case", JurisdictionID: jurisdiction.ID}
	assert.NoError(t, database.Create(&caseRef).Error)

	template := models.DeadlineTemplate{
		Name:              "Sweep Template",
		TriggerEvent:      models.TriggerCaseFiled,
		JurisdictionID:    &jurisdiction.ID,
		TimeLimit:         10,
		TimeLimitUnit:     models.UnitDays,
		CalculationMethod: models.MethodCalendarDays,
		Priority:          models.PriorityMedium,
		IsActive:          true,
	}
	template.SetReminderOffsets(reminderOffsets)
	assert.NoError(t, database.Create(&template).Error)

	deadline := models.Deadline{
		CaseID:      caseRef.ID,
		Title:       template.Name,
		DueDate:     dueDate,
		Status:      models.DownstreamStatusPending,
		Priority:    template.Priority,
		IsAutomated: true,
	}
	assert.NoError(t, database.Create(&deadline).Error)

	automated := models.AutomatedDeadline{
		TemplateID:        template.ID,
		CaseID:            caseRef.ID,
		TriggerEvent:      models.TriggerCaseFiled,
		TriggerDate:       dueDate.AddDate(0, 0, -10),
		DueDate:           dueDate,
		OriginalDays:      10,
		ActualDays:        10,
		CalculationMethod: template.CalculationMethod,
		Status:            models.DeadlineStatusPending,
		DeadlineID:        deadline.ID,
	}
	assert.NoError(t, database.Create(&automated).Error)

	return &automated
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
