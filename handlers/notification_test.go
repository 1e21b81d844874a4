package handlers

import (
	"deadline_flow_go/models"
	"deadline_flow_go/services"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationHandlers(t *testing.T) {
	database := setupTestDB(t)
	notifier := services.NewNotificationService(database)

	first := models.Notification{Type: models.NotificationTypeSystem, Title: "First", Message: "m1"}
	second := models.Notification{Type: models.NotificationTypeSystem, Title: "Second", Message: "m2"}
	assert.NoError(t, notifier.CreateNotification(&first))
	assert.NoError(t, notifier.CreateNotification(&second))

	t.Run("List unread", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/notifications?limit=10", nil)

		err := ListNotificationsHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var notifications []models.Notification
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notifications))
		assert.Len(t, notifications, 2)
	})

	t.Run("Mark one read", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/notifications/x/read", nil)
		c.SetParamNames("id")
		c.SetParamValues(first.ID)

		err := MarkNotificationReadHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		count, err := notifier.GetNotificationCount()
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Mark all read", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/notifications/read-all", nil)

		err := MarkAllNotificationsReadHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		count, err := notifier.GetNotificationCount()
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}
