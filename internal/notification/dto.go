package notification

import (
	"time"

	"github.com/rumahkita/property-management/internal"
	notificationDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/notification"
)

// ScheduleRentReminderDTO is the request payload for queuing an invoice
// reminder.
type ScheduleRentReminderDTO struct {
	InvoiceID    int64     `json:"invoice_id" validate:"required"`
	ReminderDate time.Time `json:"reminder_date" validate:"required"`
}

func (dto ScheduleRentReminderDTO) Validate() error {
	if dto.InvoiceID <= 0 {
		return internal.NewValidationFieldError("invoice_id", "invoice id is required", internal.ErrCodeValidationFailed)
	}
	if dto.ReminderDate.IsZero() {
		return internal.NewValidationFieldError("reminder_date", "reminder date is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// ScheduleLeaseExpiryDTO is the request payload for queuing a lease
// expiry notice.
type ScheduleLeaseExpiryDTO struct {
	LeaseID          int64 `json:"lease_id" validate:"required"`
	DaysBeforeExpiry int   `json:"days_before_expiry" validate:"required,min=1"`
}

func (dto ScheduleLeaseExpiryDTO) Validate() error {
	if dto.LeaseID <= 0 {
		return internal.NewValidationFieldError("lease_id", "lease id is required", internal.ErrCodeValidationFailed)
	}
	if dto.DaysBeforeExpiry <= 0 {
		return internal.NewValidationFieldError("days_before_expiry", "days before expiry must be positive", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ScheduledResponse struct {
	Scheduled []*Scheduled `json:"scheduled"`
	Limit     int          `json:"limit"`
	Offset    int          `json:"offset"`
}

type FeedResponse struct {
	Notifications []*notificationDatamodel.Notification `json:"notifications"`
	Limit         int                                   `json:"limit"`
	Offset        int                                   `json:"offset"`
}
