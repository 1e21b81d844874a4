package handlers

import (
	"deadline_flow_go/db"
	"deadline_flow_go/services"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ListNotificationsHandler returns unread notifications, newest first
func ListNotificationsHandler(c echo.Context) error {
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	notifier := services.NewNotificationService(db.DB)
	notifications, err := notifier.GetUnreadNotifications(limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch notifications")
	}
	return c.JSON(http.StatusOK, notifications)
}

// MarkNotificationReadHandler marks one notification as read
func MarkNotificationReadHandler(c echo.Context) error {
	notifier := services.NewNotificationService(db.DB)
	if err := notifier.MarkAsRead(c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notification read")
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllNotificationsReadHandler marks every unread notification as read
func MarkAllNotificationsReadHandler(c echo.Context) error {
	notifier := services.NewNotificationService(db.DB)
	if err := notifier.MarkAllAsRead(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notifications read")
	}
	return c.NoContent(http.StatusNoContent)
}
