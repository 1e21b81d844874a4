package services

import (
	"deadline_flow_go/models"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.Jurisdiction{},
		&models.Holiday{},
		&models.CourtRule{},
		&models.DeadlineTemplate{},
		&models.CaseRef{},
		&models.Deadline{},
		&models.AutomatedDeadline{},
		&models.DeadlineCalculation{},
		&models.SequenceCounter{},
		&models.Notification{},
		&models.AuditLog{},
	)
	assert.NoError(t, err)

	return testDB
}

// createTestJurisdiction creates a jurisdiction with an optional holiday set
func createTestJurisdiction(t *testing.T, db *gorm.DB, code string, holidays ...models.Holiday) *models.Jurisdiction {
	jurisdiction := models.Jurisdiction{Name: "Test Jurisdiction " + code, Code: code}
	assert.NoError(t, db.Create(&jurisdiction).Error)

	for i := range holidays {
		holidays[i].JurisdictionID = jurisdiction.ID
		if !holidays[i].AppliesToBusiness && !holidays[i].AppliesToCourt {
			holidays[i].AppliesToBusiness = true
			holidays[i].AppliesToCourt = true
		}
		assert.NoError(t, db.Create(&holidays[i]).Error)
	}

	return &jurisdiction
}

func createTestCase(t *testing.T, db *gorm.DB, jurisdictionID, caseNumber string) *models.CaseRef {
	ref := models.CaseRef{CaseNumber: caseNumber, Title: "Test Case", JurisdictionID: jurisdictionID}
	assert.NoError(t, db.Create(&ref).Error)
	return &ref
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
