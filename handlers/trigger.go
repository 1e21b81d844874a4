package handlers

import (
	"deadline_flow_go/config"
	"deadline_flow_go/db"
	"deadline_flow_go/middleware"
	"deadline_flow_go/models"
	"deadline_flow_go/services"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// TriggerEventRequest is the inbound payload from the case-lifecycle collaborator
type TriggerEventRequest struct {
	CaseID          string                 `json:"case_id"`
	TriggerEvent    string                 `json:"trigger_event"`
	TriggerDate     string                 `json:"trigger_date"` // ISO-8601
	CustomEventName string                 `json:"custom_event_name,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

// TriggerEventResponse reports the aggregate outcome: successes and
// per-template failures together, never one opaque error for the batch
type TriggerEventResponse struct {
	GeneratedCount int                        `json:"generated_count"`
	SkippedCount   int                        `json:"skipped_count"`
	ErrorCount     int                        `json:"error_count"`
	Generated      []models.AutomatedDeadline `json:"generated"`
	Errors         []services.TemplateError   `json:"errors,omitempty"`
}

// TriggerEventHandler receives a case-lifecycle trigger event and runs the
// deadline generation pipeline
func TriggerEventHandler(c echo.Context) error {
	var req TriggerEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.TriggerDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "trigger_date is required")
	}
	triggerDate, err := services.ParseTimestamp(req.TriggerDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cfg := c.Get("config").(*config.Config)
	resolver := &services.CaseRefResolver{DB: db.DB}
	opts := services.GeneratorOptions{RollForwardLandingDays: cfg.RollForwardLandingDays}

	input := services.TriggerInput{
		CaseID:          req.CaseID,
		TriggerEvent:    req.TriggerEvent,
		TriggerDate:     triggerDate,
		CustomEventName: req.CustomEventName,
		Metadata:        req.Metadata,
	}

	result, err := services.GenerateDeadlines(db.DB, resolver, opts, input)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate deadlines")
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionGenerate,
		"TriggerEvent", req.CaseID, req.TriggerEvent,
		fmt.Sprintf("Generated %d deadlines (%d skipped, %d failed)",
			len(result.Generated), len(result.Skipped), len(result.Errors)),
		nil, result.Errors)

	return c.JSON(http.StatusOK, TriggerEventResponse{
		GeneratedCount: len(result.Generated),
		SkippedCount:   len(result.Skipped),
		ErrorCount:     len(result.Errors),
		Generated:      result.Generated,
		Errors:         result.Errors,
	})
}
