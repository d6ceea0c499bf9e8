package approval

import "time"

// StaffActionApproval captures a staff-initiated mutation as data. The
// action payload is opaque JSON text; this layer never interprets it.
type StaffActionApproval struct {
	ID          int64      `gorm:"primaryKey"`
	StaffID     int64      `gorm:"column:staff_id;not null;index"`
	ActionType  string     `gorm:"column:action_type;not null"`
	TableName_  string     `gorm:"column:table_name;not null;index"`
	RecordID    *int64     `gorm:"column:record_id"`
	ActionData  string     `gorm:"column:action_data;not null"`
	Status      string     `gorm:"column:status;not null;default:pending;index"`
	AdminID     *int64     `gorm:"column:admin_id"`
	AdminNotes  *string    `gorm:"column:admin_notes"`
	SubmittedAt time.Time  `gorm:"column:submitted_at;not null"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at"`
}

func (StaffActionApproval) TableName() string {
	return "staff_action_approvals"
}
