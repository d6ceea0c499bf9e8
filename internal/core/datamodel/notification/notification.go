package notification

import "time"

// ScheduledNotification is a time-triggered pending notice created ahead
// of the event it announces (rent due, lease expiring).
type ScheduledNotification struct {
	ID                int64      `gorm:"primaryKey"`
	NotificationType  string     `gorm:"column:notification_type;not null"`
	RecipientID       int64      `gorm:"column:recipient_id;not null;index"`
	TriggerDate       time.Time  `gorm:"column:trigger_date;not null;index"`
	MessageTemplate   string     `gorm:"column:message_template;not null"`
	Status            string     `gorm:"column:status;not null;default:pending;index"`
	RelatedEntityType *string    `gorm:"column:related_entity_type"`
	RelatedEntityID   *int64     `gorm:"column:related_entity_id"`
	SentAt            *time.Time `gorm:"column:sent_at"`
	CreatedAt         time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;default:now()"`
}

func (ScheduledNotification) TableName() string {
	return "scheduled_notifications"
}

// Notification is the user-visible sink the tenant-facing feed reads from.
type Notification struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Message   string    `gorm:"column:message;not null"`
	Type      string    `gorm:"column:type;not null"`
	IsRead    bool      `gorm:"column:is_read;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (Notification) TableName() string {
	return "notifications"
}
