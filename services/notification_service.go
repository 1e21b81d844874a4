package services

import (
	"deadline_flow_go/models"
	"time"

	"gorm.io/gorm"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

func (s *NotificationService) GetUnreadNotifications(limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Where("read_at IS NULL").
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) MarkAsRead(notificationID string) error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Update("read_at", now).Error
}

func (s *NotificationService) MarkAllAsRead() error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("read_at IS NULL").
		Update("read_at", now).Error
}

func (s *NotificationService) GetNotificationCount() (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("read_at IS NULL").
		Count(&count).Error
	return count, err
}

func (s *NotificationService) CreateNotification(notification *models.Notification) error {
	return s.DB.Create(notification).Error
}

// HasReminderFor reports whether a reminder notification already exists for
// the deadline at the given offset; the sweep uses it to stay idempotent
func (s *NotificationService) HasReminderFor(automatedDeadlineID string, notificationType string, offset *int) (bool, error) {
	query := s.DB.Model(&models.Notification{}).
		Where("automated_deadline_id = ? AND type = ?", automatedDeadlineID, notificationType)
	if offset != nil {
		query = query.Where("reminder_offset = ?", *offset)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}
