package handlers

import (
	"deadline_flow_go/db"
	"deadline_flow_go/middleware"
	"deadline_flow_go/models"
	"deadline_flow_go/services"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CreateJurisdictionHandler creates a jurisdiction
func CreateJurisdictionHandler(c echo.Context) error {
	var jurisdiction models.Jurisdiction
	if err := c.Bind(&jurisdiction); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := services.CreateJurisdiction(db.DB, &jurisdiction); err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrDuplicateJurisdiction):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create jurisdiction")
		}
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionCreate,
		"Jurisdiction", jurisdiction.ID, jurisdiction.Code,
		"Jurisdiction created", nil, jurisdiction)

	return c.JSON(http.StatusCreated, jurisdiction)
}

// ListJurisdictionsHandler returns all jurisdictions
func ListJurisdictionsHandler(c echo.Context) error {
	jurisdictions, err := services.ListJurisdictions(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch jurisdictions")
	}
	return c.JSON(http.StatusOK, jurisdictions)
}

// GetJurisdictionHandler returns one jurisdiction
func GetJurisdictionHandler(c echo.Context) error {
	jurisdiction, err := services.GetJurisdictionByID(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrJurisdictionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Jurisdiction not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch jurisdiction")
	}
	return c.JSON(http.StatusOK, jurisdiction)
}

// AddHolidayHandler adds a holiday to a jurisdiction's calendar
func AddHolidayHandler(c echo.Context) error {
	// Membership defaults to both calendars when the request omits the flags
	holiday := models.Holiday{AppliesToCourt: true, AppliesToBusiness: true}
	if err := c.Bind(&holiday); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	holiday.JurisdictionID = c.Param("id")

	if err := services.AddHoliday(db.DB, &holiday); err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrJurisdictionNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Jurisdiction not found")
		case errors.Is(err, services.ErrDuplicateHoliday):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add holiday")
		}
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionCreate,
		"Holiday", holiday.ID, holiday.Label,
		"Holiday added", nil, holiday)

	return c.JSON(http.StatusCreated, holiday)
}

// ListHolidaysHandler returns a jurisdiction's holidays
func ListHolidaysHandler(c echo.Context) error {
	holidays, err := services.ListHolidays(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrJurisdictionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Jurisdiction not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch holidays")
	}
	return c.JSON(http.StatusOK, holidays)
}

// RemoveHolidayHandler deletes a holiday entry
func RemoveHolidayHandler(c echo.Context) error {
	holidayID := c.Param("holidayId")
	if err := services.RemoveHoliday(db.DB, holidayID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Holiday not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to remove holiday")
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionDelete,
		"Holiday", holidayID, "",
		"Holiday removed", nil, nil)

	return c.NoContent(http.StatusNoContent)
}

// CreateCourtRuleHandler creates a statutory rule reference
func CreateCourtRuleHandler(c echo.Context) error {
	var rule models.CourtRule
	if err := c.Bind(&rule); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := services.CreateCourtRule(db.DB, &rule); err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrJurisdictionNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Jurisdiction not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create court rule")
		}
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionCreate,
		"CourtRule", rule.ID, rule.RuleNumber,
		"Court rule created", nil, rule)

	return c.JSON(http.StatusCreated, rule)
}

// ListCourtRulesHandler returns a jurisdiction's rules
func ListCourtRulesHandler(c echo.Context) error {
	rules, err := services.ListCourtRules(db.DB, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch court rules")
	}
	return c.JSON(http.StatusOK, rules)
}
