package role

import "time"

// Role stores its permission list as a JSON-encoded array of permission
// strings. Parsing into a set happens at the auth boundary, not here.
type Role struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	Permissions string    `gorm:"column:permissions;not null;default:'[]'"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Role) TableName() string {
	return "roles"
}
