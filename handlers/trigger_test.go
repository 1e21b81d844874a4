package handlers

import (
	"deadline_flow_go/models"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestTriggerEventHandler(t *testing.T) {
	database := setupTestDB(t)
	_, caseRef, _ := createHandlerFixture(t, database, "TRG-OK")

	t.Run("Success", func(t *testing.T) {
		body := `{"case_id":"` + caseRef.ID + `","trigger_event":"CASE_FILED","trigger_date":"2024-01-01"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/triggers", strings.NewReader(body))

		err := TriggerEventHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp TriggerEventResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.GeneratedCount)
		assert.Equal(t, 0, resp.SkippedCount)
		assert.Equal(t, 0, resp.ErrorCount)
		assert.Len(t, resp.Generated, 1)
		assert.Equal(t, utcDate(2024, 1, 11), resp.Generated[0].DueDate)
	})

	t.Run("Re-delivery reports skipped", func(t *testing.T) {
		body := `{"case_id":"` + caseRef.ID + `","trigger_event":"CASE_FILED","trigger_date":"2024-01-01"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/triggers", strings.NewReader(body))

		err := TriggerEventHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp TriggerEventResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.GeneratedCount)
		assert.Equal(t, 1, resp.SkippedCount)
	})

	t.Run("Missing trigger date", func(t *testing.T) {
		body := `{"case_id":"` + caseRef.ID + `","trigger_event":"CASE_FILED"}`
		_, c, _ := setupEcho(http.MethodPost, "/api/triggers", strings.NewReader(body))

		err := TriggerEventHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("Unknown trigger event", func(t *testing.T) {
		body := `{"case_id":"` + caseRef.ID + `","trigger_event":"CASE_SETTLED","trigger_date":"2024-01-01"}`
		_, c, _ := setupEcho(http.MethodPost, "/api/triggers", strings.NewReader(body))

		err := TriggerEventHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("Unknown case", func(t *testing.T) {
		body := `{"case_id":"no-such-case","trigger_event":"CASE_FILED","trigger_date":"2024-01-01"}`
		_, c, _ := setupEcho(http.MethodPost, "/api/triggers", strings.NewReader(body))

		err := TriggerEventHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("RFC3339 trigger timestamp accepted", func(t *testing.T) {
		body := `{"case_id":"` + caseRef.ID + `","trigger_event":"MOTION_FILED","trigger_date":"2024-02-01T15:04:05Z"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/triggers", strings.NewReader(body))

		// No matching templates for MOTION_FILED: success with zero deadlines
		err := TriggerEventHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp TriggerEventResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.GeneratedCount)
	})
}

func TestTriggerEventHandlerPartialFailure(t *testing.T) {
	database := setupTestDB(t)
	jurisdiction, caseRef, _ := createHandlerFixture(t, database, "TRG-PART")

	bad := &models.DeadlineTemplate{
		Name:              "Broken Custom",
		TriggerEvent:      models.TriggerCaseFiled,
		JurisdictionID:    &jurisdiction.ID,
		TimeLimit:         5,
		TimeLimitUnit:     models.UnitDays,
		CalculationMethod: models.MethodCustom,
		CustomStrategy:    "handler-test-unregistered",
		Priority:          models.PriorityMedium,
		IsActive:          true,
	}
	assert.NoError(t, database.Create(bad).Error)

	body := `{"case_id":"` + caseRef.ID + `","trigger_event":"CASE_FILED","trigger_date":"2024-01-01"}`
	_, c, rec := setupEcho(http.MethodPost, "/api/triggers", strings.NewReader(body))

	err := TriggerEventHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp TriggerEventResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.GeneratedCount)
	assert.Equal(t, 1, resp.ErrorCount)
	assert.Equal(t, bad.ID, resp.Errors[0].TemplateID)
}
