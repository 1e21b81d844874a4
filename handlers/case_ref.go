package handlers

import (
	"deadline_flow_go/db"
	"deadline_flow_go/models"
	"deadline_flow_go/services"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UpsertCaseRefHandler receives case projections from the case-lifecycle
// collaborator so jurisdiction resolution can happen locally
func UpsertCaseRefHandler(c echo.Context) error {
	var ref models.CaseRef
	if err := c.Bind(&ref); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if ref.CaseNumber == "" || ref.JurisdictionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "case_number and jurisdiction_id are required")
	}
	if _, err := services.GetJurisdictionByID(db.DB, ref.JurisdictionID); err != nil {
		if errors.Is(err, services.ErrJurisdictionNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown jurisdiction")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify jurisdiction")
	}

	if ref.ID != "" {
		var existing models.CaseRef
		err := db.DB.First(&existing, "id = ?", ref.ID).Error
		if err == nil {
			if saveErr := db.DB.Save(&ref).Error; saveErr != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update case")
			}
			return c.JSON(http.StatusOK, ref)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to look up case")
		}
	}

	if err := db.DB.Create(&ref).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create case")
	}
	return c.JSON(http.StatusCreated, ref)
}

// GetCaseRefHandler returns one case projection
func GetCaseRefHandler(c echo.Context) error {
	var ref models.CaseRef
	if err := db.DB.Preload("Jurisdiction").First(&ref, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case")
	}
	return c.JSON(http.StatusOK, ref)
}
