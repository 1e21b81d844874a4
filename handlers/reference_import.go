package handlers

import (
	"deadline_flow_go/db"
	"deadline_flow_go/middleware"
	"deadline_flow_go/models"
	"deadline_flow_go/services"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// DownloadImportTemplateHandler returns the workbook skeleton for bulk
// reference-data import
func DownloadImportTemplateHandler(c echo.Context) error {
	buf, err := services.GenerateReferenceTemplate()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate template")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="reference_import.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ImportReferenceHandler imports holidays and templates from an uploaded workbook
func ImportReferenceHandler(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Workbook file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read uploaded file")
	}
	defer file.Close()

	result, err := services.ImportReferenceWorkbook(db.DB, file)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionImport,
		"ReferenceData", fileHeader.Filename, fileHeader.Filename,
		fmt.Sprintf("Imported %d of %d rows", result.SuccessCount, result.TotalProcessed),
		nil, result.Errors)

	return c.JSON(http.StatusOK, result)
}
