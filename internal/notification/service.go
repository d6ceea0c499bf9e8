package notification

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rumahkita/property-management/internal"
	"github.com/rumahkita/property-management/internal/billing"
	notificationDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/notification"
)

// Repository persists scheduled notifications and the delivered sink.
// UpdateStatusFrom is a compare-and-set on status, mirroring the approval
// repository: it reports whether the row actually transitioned, which
// makes concurrent sweeps and double runs safe.
type Repository interface {
	Create(scheduled *notificationDatamodel.ScheduledNotification) error
	GetByID(id int64) (*notificationDatamodel.ScheduledNotification, error)
	GetPendingDue(asOf time.Time, limit int) ([]*notificationDatamodel.ScheduledNotification, error)
	GetByRecipient(recipientID int64, limit, offset int) ([]*notificationDatamodel.ScheduledNotification, error)
	UpdateStatusFrom(id int64, fromStatus, toStatus string, sentAt *time.Time) (bool, error)
	CreateNotification(n *notificationDatamodel.Notification) error
	GetNotificationsForUser(userID int64, limit, offset int) ([]*notificationDatamodel.Notification, error)
	MarkNotificationRead(id, userID int64) (bool, error)
}

type Service struct {
	repo      Repository
	billing   billing.Repository
	batchSize int
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, billingRepo billing.Repository, batchSize int, logger *slog.Logger) *Service {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Service{
		repo:      repo,
		billing:   billingRepo,
		batchSize: batchSize,
		logger:    logger,
		now:       time.Now,
	}
}

// ScheduleRentReminder queues a reminder for an invoice ahead of its due
// date. A missing invoice is a warn-level no-op: reminder scheduling
// rides along other flows and must not fail them.
func (s *Service) ScheduleRentReminder(invoiceID int64, reminderDate time.Time) error {
	invoice, err := s.billing.GetInvoiceByID(invoiceID)
	if err != nil {
		s.logger.Error("failed to load invoice for rent reminder", "error", err, "invoice_id", invoiceID)
		return internal.NewInternalError("failed to load invoice", err)
	}
	if invoice == nil {
		s.logger.Warn("rent reminder skipped: invoice not found", "invoice_id", invoiceID)
		return nil
	}

	message := fmt.Sprintf("Tagihan sewa sebesar %s jatuh tempo pada %s. Mohon segera lakukan pembayaran.",
		formatRupiah(invoice.AmountIDR), invoice.DueDate.Format("02 Jan 2006"))

	entityType := EntityTypeInvoice
	scheduled := &notificationDatamodel.ScheduledNotification{
		NotificationType:  TypeRentReminder,
		RecipientID:       invoice.TenantID,
		TriggerDate:       reminderDate,
		MessageTemplate:   message,
		Status:            StatusPending,
		RelatedEntityType: &entityType,
		RelatedEntityID:   &invoiceID,
	}

	if err := s.repo.Create(scheduled); err != nil {
		s.logger.Error("failed to schedule rent reminder", "error", err, "invoice_id", invoiceID)
		return internal.NewInternalError("failed to schedule rent reminder", err)
	}

	s.logger.Info("rent reminder scheduled",
		"scheduled_id", scheduled.ID,
		"invoice_id", invoiceID,
		"tenant_id", invoice.TenantID,
		"trigger_date", reminderDate)
	return nil
}

// ScheduleLeaseExpiryNotification queues a notice daysBeforeExpiry days
// ahead of the lease end date. A trigger already in the past is a
// warn-level no-op; no row is written.
func (s *Service) ScheduleLeaseExpiryNotification(leaseID int64, daysBeforeExpiry int) error {
	lease, err := s.billing.GetLeaseByID(leaseID)
	if err != nil {
		s.logger.Error("failed to load lease for expiry notice", "error", err, "lease_id", leaseID)
		return internal.NewInternalError("failed to load lease", err)
	}
	if lease == nil {
		s.logger.Warn("lease expiry notice skipped: lease not found", "lease_id", leaseID)
		return nil
	}

	triggerDate := lease.EndDate.AddDate(0, 0, -daysBeforeExpiry)
	if triggerDate.Before(s.now()) {
		s.logger.Warn("lease expiry notice skipped: trigger date already passed",
			"lease_id", leaseID,
			"trigger_date", triggerDate,
			"end_date", lease.EndDate)
		return nil
	}

	message := fmt.Sprintf("Masa sewa Anda berakhir pada %s. Hubungi pengelola untuk perpanjangan.",
		lease.EndDate.Format("02 Jan 2006"))

	entityType := EntityTypeLease
	scheduled := &notificationDatamodel.ScheduledNotification{
		NotificationType:  TypeLeaseExpiry,
		RecipientID:       lease.TenantID,
		TriggerDate:       triggerDate,
		MessageTemplate:   message,
		Status:            StatusPending,
		RelatedEntityType: &entityType,
		RelatedEntityID:   &leaseID,
	}

	if err := s.repo.Create(scheduled); err != nil {
		s.logger.Error("failed to schedule lease expiry notice", "error", err, "lease_id", leaseID)
		return internal.NewInternalError("failed to schedule lease expiry notice", err)
	}

	s.logger.Info("lease expiry notice scheduled",
		"scheduled_id", scheduled.ID,
		"lease_id", leaseID,
		"tenant_id", lease.TenantID,
		"trigger_date", triggerDate)
	return nil
}

// ProcessResult summarizes one dispatch sweep.
type ProcessResult struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

// ProcessPendingNotifications sweeps due pending rows and materializes
// each into the delivered sink. Items are isolated: one failure marks
// that row failed and the sweep continues. The status compare-and-set
// makes the sweep idempotent; a second run finds nothing pending.
func (s *Service) ProcessPendingNotifications() (ProcessResult, error) {
	var result ProcessResult

	due, err := s.repo.GetPendingDue(s.now(), s.batchSize)
	if err != nil {
		s.logger.Error("failed to load due notifications", "error", err)
		return result, internal.NewInternalError("failed to load due notifications", err)
	}

	for _, item := range due {
		result.Processed++
		if s.dispatch(item) {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	if result.Processed > 0 {
		s.logger.Info("notification sweep finished",
			"processed", result.Processed,
			"sent", result.Sent,
			"failed", result.Failed)
	}
	return result, nil
}

func (s *Service) dispatch(item *notificationDatamodel.ScheduledNotification) bool {
	deliveryErr := s.repo.CreateNotification(&notificationDatamodel.Notification{
		UserID:    item.RecipientID,
		Message:   item.MessageTemplate,
		Type:      item.NotificationType,
		IsRead:    false,
		CreatedAt: s.now(),
	})

	if deliveryErr != nil {
		s.logger.Error("notification delivery failed",
			"error", deliveryErr,
			"scheduled_id", item.ID,
			"recipient_id", item.RecipientID)

		if _, err := s.repo.UpdateStatusFrom(item.ID, StatusPending, StatusFailed, nil); err != nil {
			s.logger.Error("failed to mark notification failed", "error", err, "scheduled_id", item.ID)
		}
		return false
	}

	sentAt := s.now()
	applied, err := s.repo.UpdateStatusFrom(item.ID, StatusPending, StatusSent, &sentAt)
	if err != nil {
		s.logger.Error("failed to mark notification sent", "error", err, "scheduled_id", item.ID)
		return false
	}
	if !applied {
		// Another sweep delivered this row between our read and write.
		s.logger.Warn("notification already transitioned by a concurrent sweep", "scheduled_id", item.ID)
		return false
	}

	s.logger.Info("notification sent",
		"scheduled_id", item.ID,
		"recipient_id", item.RecipientID,
		"type", item.NotificationType)
	return true
}

// CancelScheduledNotification cancels a pending row. Cancelling a row in
// any terminal state is a warn-level no-op, not an error.
func (s *Service) CancelScheduledNotification(id int64) error {
	item, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to load scheduled notification", "error", err, "scheduled_id", id)
		return internal.NewInternalError("failed to load scheduled notification", err)
	}
	if item == nil {
		return internal.ErrNotificationNotFound
	}

	if item.Status != StatusPending {
		s.logger.Warn("cancel skipped: notification not pending",
			"scheduled_id", id,
			"current_status", item.Status)
		return nil
	}

	applied, err := s.repo.UpdateStatusFrom(id, StatusPending, StatusCancelled, nil)
	if err != nil {
		s.logger.Error("failed to cancel scheduled notification", "error", err, "scheduled_id", id)
		return internal.NewInternalError("failed to cancel scheduled notification", err)
	}
	if !applied {
		s.logger.Warn("cancel lost the race: notification already transitioned", "scheduled_id", id)
		return nil
	}

	s.logger.Info("scheduled notification cancelled", "scheduled_id", id)
	return nil
}

func (s *Service) GetScheduledByID(id int64) (*Scheduled, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to load scheduled notification", "error", err, "scheduled_id", id)
		return nil, internal.NewInternalError("failed to load scheduled notification", err)
	}
	if item == nil {
		return nil, internal.ErrNotificationNotFound
	}
	return FromDataModel(item), nil
}

func (s *Service) GetScheduledForRecipient(recipientID int64, limit, offset int) ([]*Scheduled, error) {
	items, err := s.repo.GetByRecipient(recipientID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list scheduled notifications", "error", err, "recipient_id", recipientID)
		return nil, internal.NewInternalError("failed to list scheduled notifications", err)
	}

	scheduled := make([]*Scheduled, 0, len(items))
	for _, item := range items {
		scheduled = append(scheduled, FromDataModel(item))
	}
	return scheduled, nil
}

func (s *Service) GetUserNotifications(userID int64, limit, offset int) ([]*notificationDatamodel.Notification, error) {
	items, err := s.repo.GetNotificationsForUser(userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list notifications", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to list notifications", err)
	}
	return items, nil
}

// MarkNotificationRead flips is_read for one of the user's own
// notifications.
func (s *Service) MarkNotificationRead(id, userID int64) error {
	applied, err := s.repo.MarkNotificationRead(id, userID)
	if err != nil {
		s.logger.Error("failed to mark notification read", "error", err, "notification_id", id, "user_id", userID)
		return internal.NewInternalError("failed to mark notification read", err)
	}
	if !applied {
		return internal.ErrNotificationNotFound
	}
	return nil
}
