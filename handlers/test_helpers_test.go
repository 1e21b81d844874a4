package handlers

import (
	"deadline_flow_go/config"
	"deadline_flow_go/db"
	"deadline_flow_go/middleware"
	"deadline_flow_go/models"
	"deadline_flow_go/services"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
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

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:            "test",
		AppURL:                 "http://localhost:3000",
		RollForwardLandingDays: true,
		DueSoonFallbackDays:    3,
	})
	c.Set(middleware.ContextKeyAuditContext, services.AuditContext{
		ActorID:   "test-actor",
		ActorName: "Test Actor",
	})

	return e, c, rec
}

func createHandlerFixture(t *testing.T, database *gorm.DB, code string) (*models.Jurisdiction, *models.CaseRef, *models.DeadlineTemplate) {
	t.Helper()

	jurisdiction := &models.Jurisdiction{Name: "Handler Test " + code, Code: code}
	assert.NoError(t, database.Create(jurisdiction).Error)

	caseRef := &models.CaseRef{CaseNumber: code + "-0001", Title: "Handler Case", JurisdictionID: jurisdiction.ID}
	assert.NoError(t, database.Create(caseRef).Error)

	template := &models.DeadlineTemplate{
		Name:              "Answer to Complaint",
		TriggerEvent:      models.TriggerCaseFiled,
		JurisdictionID:    &jurisdiction.ID,
		TimeLimit:         10,
		TimeLimitUnit:     models.UnitDays,
		CalculationMethod: models.MethodCalendarDays,
		Priority:          models.PriorityMedium,
		IsActive:          true,
	}
	assert.NoError(t, database.Create(template).Error)

	return jurisdiction, caseRef, template
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
