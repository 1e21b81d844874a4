package handlers

import (
	"deadline_flow_go/db"
	"deadline_flow_go/middleware"
	"deadline_flow_go/models"
	"deadline_flow_go/services"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// CreateTemplateHandler creates a deadline template
func CreateTemplateHandler(c echo.Context) error {
	// New templates default to active when the request omits is_active
	template := models.DeadlineTemplate{IsActive: true}
	if err := c.Bind(&template); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := services.CreateTemplate(db.DB, &template); err != nil {
		if errors.Is(err, services.ErrTemplateInvalid) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create template")
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionCreate,
		"DeadlineTemplate", template.ID, template.Name,
		"Deadline template created", nil, template)

	return c.JSON(http.StatusCreated, template)
}

// ListTemplatesHandler returns templates matching explicit query filters
func ListTemplatesHandler(c echo.Context) error {
	filters := services.TemplateFilters{
		TriggerEvent:   c.QueryParam("trigger_event"),
		JurisdictionID: c.QueryParam("jurisdiction_id"),
		UniversalOnly:  c.QueryParam("universal") == "true",
		ActiveOnly:     c.QueryParam("active") == "true",
	}

	templates, err := services.ListTemplates(db.DB, filters)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch templates")
	}
	return c.JSON(http.StatusOK, templates)
}

// GetTemplateHandler returns one template
func GetTemplateHandler(c echo.Context) error {
	template, err := services.GetTemplateByID(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Template not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch template")
	}
	return c.JSON(http.StatusOK, template)
}

// UpdateTemplateHandler updates a template. In-flight calculations are
// unaffected; they run on the snapshot taken at trigger time.
func UpdateTemplateHandler(c echo.Context) error {
	existing, err := services.GetTemplateByID(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Template not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch template")
	}

	before := *existing
	if err := c.Bind(existing); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	existing.ID = before.ID // the path parameter wins

	if err := services.UpdateTemplate(db.DB, existing); err != nil {
		if errors.Is(err, services.ErrTemplateInvalid) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update template")
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionUpdate,
		"DeadlineTemplate", existing.ID, existing.Name,
		"Deadline template updated", before, existing)

	return c.JSON(http.StatusOK, existing)
}

// DeactivateTemplateHandler retires a template from matching
func DeactivateTemplateHandler(c echo.Context) error {
	if err := services.DeactivateTemplate(db.DB, c.Param("id")); err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Template not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to deactivate template")
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionUpdate,
		"DeadlineTemplate", c.Param("id"), "",
		"Deadline template deactivated", nil, nil)

	return c.NoContent(http.StatusNoContent)
}
