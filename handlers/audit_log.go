package handlers

import (
	"deadline_flow_go/db"
	"deadline_flow_go/services"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ListAuditLogsHandler returns paginated operation audit logs with explicit filters
func ListAuditLogsHandler(c echo.Context) error {
	filters := services.AuditLogFilters{
		ActorID:      c.QueryParam("actor_id"),
		ResourceType: c.QueryParam("resource_type"),
		Action:       c.QueryParam("action"),
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := services.ParseDate(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filters.DateFrom = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := services.ParseDate(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filters.DateTo = t
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 50)

	logs, total, err := services.GetAuditLogs(db.DB, filters, page, pageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch audit logs")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"total": total,
		"page":  page,
		"logs":  logs,
	})
}

func queryInt(c echo.Context, name string, defaultValue int) int {
	if v := c.QueryParam(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
