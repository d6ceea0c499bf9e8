package billing

import "time"

// Invoice and Lease are the minimal read models the notification
// dispatcher and approval replay need. The wider property CRUD owns the
// full schema.
type Invoice struct {
	ID        int64     `gorm:"primaryKey"`
	LeaseID   int64     `gorm:"column:lease_id;not null;index"`
	TenantID  int64     `gorm:"column:tenant_id;not null;index"`
	AmountIDR int64     `gorm:"column:amount_idr;not null"`
	DueDate   time.Time `gorm:"column:due_date;type:date;not null"`
	Status    string    `gorm:"column:status;not null;default:unpaid"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Invoice) TableName() string {
	return "invoices"
}

type Lease struct {
	ID            int64     `gorm:"primaryKey"`
	UnitID        int64     `gorm:"column:unit_id;not null"`
	TenantID      int64     `gorm:"column:tenant_id;not null;index"`
	StartDate     time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate       time.Time `gorm:"column:end_date;type:date;not null"`
	RentAmountIDR int64     `gorm:"column:rent_amount_idr;not null"`
	Status        string    `gorm:"column:status;not null;default:active"`
	CreatedAt     time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time `gorm:"column:updated_at;default:now()"`
}

func (Lease) TableName() string {
	return "leases"
}
