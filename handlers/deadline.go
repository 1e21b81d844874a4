package handlers

import (
	"deadline_flow_go/config"
	"deadline_flow_go/db"
	"deadline_flow_go/middleware"
	"deadline_flow_go/models"
	"deadline_flow_go/services"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// AutomatedDeadlineView decorates the stored record with its clock-derived
// status for downstream consumers
type AutomatedDeadlineView struct {
	models.AutomatedDeadline
	EffectiveStatus string `json:"effective_status"`
}

// ListAutomatedDeadlinesHandler returns deadlines matching explicit query filters
func ListAutomatedDeadlinesHandler(c echo.Context) error {
	filters := services.DeadlineFilters{
		CaseID: c.QueryParam("case_id"),
		Status: c.QueryParam("status"),
	}
	if v := c.QueryParam("due_after"); v != "" {
		t, err := services.ParseDate(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filters.DueAfter = t
	}
	if v := c.QueryParam("due_until"); v != "" {
		t, err := services.ParseDate(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filters.DueUntil = t
	}

	deadlines, err := services.ListAutomatedDeadlines(db.DB, filters)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch deadlines")
	}

	cfg := c.Get("config").(*config.Config)
	now := time.Now().UTC()
	views := make([]AutomatedDeadlineView, 0, len(deadlines))
	for i := range deadlines {
		views = append(views, AutomatedDeadlineView{
			AutomatedDeadline: deadlines[i],
			EffectiveStatus:   deadlines[i].EffectiveStatus(now, deadlines[i].Template.ReminderOffsets(), cfg.DueSoonFallbackDays),
		})
	}

	return c.JSON(http.StatusOK, views)
}

// GetAutomatedDeadlineHandler returns one deadline with derived status
func GetAutomatedDeadlineHandler(c echo.Context) error {
	automated, err := services.GetAutomatedDeadlineByID(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrDeadlineNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Deadline not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch deadline")
	}

	cfg := c.Get("config").(*config.Config)
	return c.JSON(http.StatusOK, AutomatedDeadlineView{
		AutomatedDeadline: *automated,
		EffectiveStatus:   automated.EffectiveStatus(time.Now().UTC(), automated.Template.ReminderOffsets(), cfg.DueSoonFallbackDays),
	})
}

// OverrideRequest is the manual-correction payload from the review UI
type OverrideRequest struct {
	NewDueDate string `json:"new_due_date,omitempty"` // YYYY-MM-DD
	Status     string `json:"status,omitempty"`
	Reason     string `json:"reason"`
	Notes      string `json:"notes,omitempty"`
}

// OverrideDeadlineHandler applies a manual correction to an automated deadline
func OverrideDeadlineHandler(c echo.Context) error {
	var req OverrideRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	auditCtx := middleware.GetAuditContext(c)

	input := services.OverrideInput{
		Status:       req.Status,
		Reason:       req.Reason,
		Notes:        req.Notes,
		OverriddenBy: auditCtx.ActorName,
	}
	if req.NewDueDate != "" {
		t, err := services.ParseDate(req.NewDueDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		input.NewDueDate = &t
	}

	before, err := services.GetAutomatedDeadlineByID(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrDeadlineNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Deadline not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch deadline")
	}

	automated, err := services.OverrideDeadline(db.DB, c.Param("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrDeadlineNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Deadline not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to apply override")
		}
	}

	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionOverride,
		"AutomatedDeadline", automated.ID, automated.Template.Name,
		"Manual override: "+req.Reason,
		map[string]interface{}{"due_date": before.DueDate, "status": before.Status},
		map[string]interface{}{"due_date": automated.DueDate, "status": automated.Status})

	return c.JSON(http.StatusOK, automated)
}

// GetCalculationHistoryHandler returns the immutable calculation snapshots
// for a deadline, oldest first
func GetCalculationHistoryHandler(c echo.Context) error {
	if _, err := services.GetAutomatedDeadlineByID(db.DB, c.Param("id")); err != nil {
		if errors.Is(err, services.ErrDeadlineNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Deadline not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch deadline")
	}

	calculations, err := services.GetCalculationHistory(db.DB, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch calculation history")
	}
	return c.JSON(http.StatusOK, calculations)
}
