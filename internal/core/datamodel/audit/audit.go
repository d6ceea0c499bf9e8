package audit

import "time"

// AuditLog rows are append-only; nothing in the codebase updates or
// deletes them after creation.
type AuditLog struct {
	ID         int64     `gorm:"primaryKey"`
	UserID     int64     `gorm:"column:user_id;not null;index"`
	ActionType string    `gorm:"column:action_type;not null;index"`
	TableName_ string    `gorm:"column:table_name;not null;index"`
	OldValues  *string   `gorm:"column:old_values"`
	NewValues  *string   `gorm:"column:new_values"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
