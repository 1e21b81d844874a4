package jobs

import (
	"deadline_flow_go/config"
	"deadline_flow_go/models"
	"deadline_flow_go/services"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

// SweepDeadlines is the periodic reconciliation pass. Status is derived from
// the clock, never stored, so the sweep's only writes are notification
// records: one reminder per (deadline, offset) as the due date approaches,
// and one overdue notice once it passes. Re-running the sweep is harmless.
func SweepDeadlines(database *gorm.DB, cfg *config.Config, now time.Time) (int, error) {
	log.Println("Starting deadline sweep...")

	var open []models.AutomatedDeadline
	err := database.Preload("Template").
		Where("status = ?", models.DeadlineStatusPending).
		Find(&open).Error
	if err != nil {
		log.Printf("Error fetching deadlines for sweep: %v", err)
		return 0, err
	}

	notifier := services.NewNotificationService(database)
	created := 0

	for i := range open {
		deadline := &open[i]
		offsets := deadline.Template.ReminderOffsets()

		switch deadline.EffectiveStatus(now, offsets, cfg.DueSoonFallbackDays) {
		case models.DeadlineStatusOverdue:
			n, err := notifyOverdue(notifier, deadline, cfg)
			if err != nil {
				log.Printf("Failed to create overdue notice for deadline %s: %v", deadline.ID, err)
				continue
			}
			created += n
		case models.DeadlineStatusDueSoon:
			n, err := notifyReminders(notifier, deadline, offsets, now, cfg)
			if err != nil {
				log.Printf("Failed to create reminders for deadline %s: %v", deadline.ID, err)
				continue
			}
			created += n
		}
	}

	log.Printf("Deadline sweep completed: %d notifications created", created)
	return created, nil
}

func notifyOverdue(notifier *services.NotificationService, deadline *models.AutomatedDeadline, cfg *config.Config) (int, error) {
	exists, err := notifier.HasReminderFor(deadline.ID, models.NotificationTypeDeadlineOverdue, nil)
	if err != nil || exists {
		return 0, err
	}

	notification := models.Notification{
		CaseID:              &deadline.CaseID,
		AutomatedDeadlineID: &deadline.ID,
		Type:                models.NotificationTypeDeadlineOverdue,
		Title:               fmt.Sprintf("Deadline overdue: %s", deadline.Template.Name),
		Message: fmt.Sprintf("%s was due on %s and has not been completed.",
			deadline.Template.Name, deadline.DueDate.Format("January 2, 2006")),
		LinkURL: cfg.AppURL + "/deadlines/" + deadline.ID,
	}
	if err := notifier.CreateNotification(&notification); err != nil {
		return 0, err
	}
	return 1, nil
}

func notifyReminders(notifier *services.NotificationService, deadline *models.AutomatedDeadline, offsets []int, now time.Time, cfg *config.Config) (int, error) {
	created := 0
	for _, offset := range offsets {
		windowStart := deadline.DueDate.AddDate(0, 0, -offset)
		if now.Before(windowStart) {
			continue // this offset's window has not opened yet
		}

		offsetCopy := offset
		exists, err := notifier.HasReminderFor(deadline.ID, models.NotificationTypeDeadlineReminder, &offsetCopy)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		notification := models.Notification{
			CaseID:              &deadline.CaseID,
			AutomatedDeadlineID: &deadline.ID,
			Type:                models.NotificationTypeDeadlineReminder,
			Title:               fmt.Sprintf("Upcoming deadline: %s", deadline.Template.Name),
			Message: fmt.Sprintf("%s is due on %s.",
				deadline.Template.Name, deadline.DueDate.Format("January 2, 2006")),
			LinkURL:        cfg.AppURL + "/deadlines/" + deadline.ID,
			ReminderOffset: &offsetCopy,
		}
		if err := notifier.CreateNotification(&notification); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
