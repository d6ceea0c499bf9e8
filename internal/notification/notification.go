package notification

import (
	"strconv"
	"time"

	notificationDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/notification"
)

// Notification types the dispatcher schedules.
const (
	TypeRentReminder = "rent_reminder"
	TypeLeaseExpiry  = "lease_expiry"
)

// Scheduled notification states. Pending is the only non-terminal state;
// sent, failed and cancelled rows are never transitioned again.
const (
	StatusPending   = "pending"
	StatusSent      = "sent"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

const (
	EntityTypeInvoice = "invoice"
	EntityTypeLease   = "lease"
)

type Scheduled struct {
	ID                int64      `json:"id"`
	NotificationType  string     `json:"notification_type"`
	RecipientID       int64      `json:"recipient_id"`
	TriggerDate       time.Time  `json:"trigger_date"`
	MessageTemplate   string     `json:"message_template"`
	Status            string     `json:"status"`
	RelatedEntityType *string    `json:"related_entity_type,omitempty"`
	RelatedEntityID   *int64     `json:"related_entity_id,omitempty"`
	SentAt            *time.Time `json:"sent_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (s *Scheduled) CanBeCancelled() bool {
	return s.Status == StatusPending
}

func FromDataModel(m *notificationDatamodel.ScheduledNotification) *Scheduled {
	return &Scheduled{
		ID:                m.ID,
		NotificationType:  m.NotificationType,
		RecipientID:       m.RecipientID,
		TriggerDate:       m.TriggerDate,
		MessageTemplate:   m.MessageTemplate,
		Status:            m.Status,
		RelatedEntityType: m.RelatedEntityType,
		RelatedEntityID:   m.RelatedEntityID,
		SentAt:            m.SentAt,
		CreatedAt:         m.CreatedAt,
	}
}

// formatRupiah renders an IDR amount with dot thousand separators, the
// way Indonesian invoices print it (5500000 -> "Rp 5.500.000").
func formatRupiah(amount int64) string {
	digits := strconv.FormatInt(amount, 10)
	negative := false
	if amount < 0 {
		negative = true
		digits = digits[1:]
	}

	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	if negative {
		return "Rp -" + string(out)
	}
	return "Rp " + string(out)
}
