package postgres

import (
	"time"

	notificationDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/notification"
	"github.com/rumahkita/property-management/internal/notification"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(scheduled *notificationDatamodel.ScheduledNotification) error {
	return r.db.Create(scheduled).Error
}

func (r *NotificationRepository) GetByID(id int64) (*notificationDatamodel.ScheduledNotification, error) {
	var scheduled notificationDatamodel.ScheduledNotification
	err := r.db.Where("id = ?", id).First(&scheduled).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &scheduled, nil
}

func (r *NotificationRepository) GetPendingDue(asOf time.Time, limit int) ([]*notificationDatamodel.ScheduledNotification, error) {
	var due []*notificationDatamodel.ScheduledNotification
	err := r.db.Where("status = ? AND trigger_date <= ?", notification.StatusPending, asOf).
		Order("trigger_date ASC").
		Limit(limit).
		Find(&due).Error
	return due, err
}

func (r *NotificationRepository) GetByRecipient(recipientID int64, limit, offset int) ([]*notificationDatamodel.ScheduledNotification, error) {
	var scheduled []*notificationDatamodel.ScheduledNotification
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("trigger_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&scheduled).Error
	return scheduled, err
}

// UpdateStatusFrom transitions the row only when its status still equals
// fromStatus. RowsAffected == 0 means a concurrent sweep or cancel won.
func (r *NotificationRepository) UpdateStatusFrom(id int64, fromStatus, toStatus string, sentAt *time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     toStatus,
		"updated_at": time.Now(),
	}
	if sentAt != nil {
		updates["sent_at"] = *sentAt
	}

	result := r.db.Model(&notificationDatamodel.ScheduledNotification{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *NotificationRepository) CreateNotification(n *notificationDatamodel.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) GetNotificationsForUser(userID int64, limit, offset int) ([]*notificationDatamodel.Notification, error) {
	var notifications []*notificationDatamodel.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) MarkNotificationRead(id, userID int64) (bool, error) {
	result := r.db.Model(&notificationDatamodel.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
