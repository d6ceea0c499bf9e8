package notification_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rumahkita/property-management/internal"
	billingDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/billing"
	notificationDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/notification"
	"github.com/rumahkita/property-management/internal/notification"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestNotificationService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Service Suite")
}

// MockRepository implements notification.Repository for testing
type MockRepository struct {
	scheduled map[int64]*notificationDatamodel.ScheduledNotification
	delivered []*notificationDatamodel.Notification
	nextID    int64

	failDeliveryFor map[int64]error // recipient id -> error
	shouldFail      bool
	failError       error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		scheduled:       make(map[int64]*notificationDatamodel.ScheduledNotification),
		nextID:          1,
		failDeliveryFor: make(map[int64]error),
	}
}

func (m *MockRepository) Create(s *notificationDatamodel.ScheduledNotification) error {
	if m.shouldFail {
		return m.failError
	}
	s.ID = m.nextID
	m.nextID++
	m.scheduled[s.ID] = s
	return nil
}

func (m *MockRepository) GetByID(id int64) (*notificationDatamodel.ScheduledNotification, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	s, exists := m.scheduled[id]
	if !exists {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (m *MockRepository) GetPendingDue(asOf time.Time, limit int) ([]*notificationDatamodel.ScheduledNotification, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var due []*notificationDatamodel.ScheduledNotification
	for i := int64(1); i < m.nextID; i++ {
		s, exists := m.scheduled[i]
		if !exists {
			continue
		}
		if s.Status == notification.StatusPending && !s.TriggerDate.After(asOf) {
			copied := *s
			due = append(due, &copied)
		}
		if len(due) == limit {
			break
		}
	}
	return due, nil
}

func (m *MockRepository) GetByRecipient(recipientID int64, limit, offset int) ([]*notificationDatamodel.ScheduledNotification, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*notificationDatamodel.ScheduledNotification
	for _, s := range m.scheduled {
		if s.RecipientID == recipientID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *MockRepository) UpdateStatusFrom(id int64, fromStatus, toStatus string, sentAt *time.Time) (bool, error) {
	s, exists := m.scheduled[id]
	if !exists || s.Status != fromStatus {
		return false, nil
	}
	s.Status = toStatus
	if sentAt != nil {
		s.SentAt = sentAt
	}
	return true, nil
}

func (m *MockRepository) CreateNotification(n *notificationDatamodel.Notification) error {
	if err, ok := m.failDeliveryFor[n.UserID]; ok {
		return err
	}
	n.ID = int64(len(m.delivered) + 1)
	m.delivered = append(m.delivered, n)
	return nil
}

func (m *MockRepository) GetNotificationsForUser(userID int64, limit, offset int) ([]*notificationDatamodel.Notification, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*notificationDatamodel.Notification
	for _, n := range m.delivered {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (m *MockRepository) MarkNotificationRead(id, userID int64) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	for _, n := range m.delivered {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

// mockBillingRepository implements billing.Repository for testing
type mockBillingRepository struct {
	invoices map[int64]*billingDatamodel.Invoice
	leases   map[int64]*billingDatamodel.Lease
	err      error
}

func newMockBillingRepository() *mockBillingRepository {
	return &mockBillingRepository{
		invoices: make(map[int64]*billingDatamodel.Invoice),
		leases:   make(map[int64]*billingDatamodel.Lease),
	}
}

func (m *mockBillingRepository) GetInvoiceByID(id int64) (*billingDatamodel.Invoice, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.invoices[id], nil
}

func (m *mockBillingRepository) GetLeaseByID(id int64) (*billingDatamodel.Lease, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.leases[id], nil
}

func (m *mockBillingRepository) CreateLease(lease *billingDatamodel.Lease) error {
	if m.err != nil {
		return m.err
	}
	m.leases[lease.ID] = lease
	return nil
}

var _ = Describe("NotificationService", func() {
	var (
		service     *notification.Service
		mockRepo    *MockRepository
		billingRepo *mockBillingRepository
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	schedulePending := func(recipientID int64, triggerDate time.Time) int64 {
		s := &notificationDatamodel.ScheduledNotification{
			NotificationType: notification.TypeRentReminder,
			RecipientID:      recipientID,
			TriggerDate:      triggerDate,
			MessageTemplate:  "Tagihan sewa jatuh tempo.",
			Status:           notification.StatusPending,
		}
		Expect(mockRepo.Create(s)).To(Succeed())
		return s.ID
	}

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		billingRepo = newMockBillingRepository()
		service = notification.NewService(mockRepo, billingRepo, 100, testLogger)
	})

	Describe("ScheduleRentReminder", func() {
		BeforeEach(func() {
			billingRepo.invoices[5] = &billingDatamodel.Invoice{
				ID:        5,
				LeaseID:   1,
				TenantID:  77,
				AmountIDR: 5500000,
				DueDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			}
		})

		It("should create a pending row addressed to the invoice tenant", func() {
			reminderDate := time.Date(2026, 9, 28, 9, 0, 0, 0, time.UTC)

			err := service.ScheduleRentReminder(5, reminderDate)

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.scheduled).To(HaveLen(1))
			s := mockRepo.scheduled[1]
			Expect(s.RecipientID).To(Equal(int64(77)))
			Expect(s.Status).To(Equal(notification.StatusPending))
			Expect(s.TriggerDate).To(Equal(reminderDate))
			Expect(s.NotificationType).To(Equal(notification.TypeRentReminder))
			Expect(*s.RelatedEntityType).To(Equal(notification.EntityTypeInvoice))
			Expect(*s.RelatedEntityID).To(Equal(int64(5)))
		})

		It("should render the amount and due date into the message", func() {
			err := service.ScheduleRentReminder(5, time.Now().Add(24*time.Hour))

			Expect(err).NotTo(HaveOccurred())
			message := mockRepo.scheduled[1].MessageTemplate
			Expect(message).To(ContainSubstring("Rp 5.500.000"))
			Expect(message).To(ContainSubstring("01 Oct 2026"))
		})

		It("should warn and do nothing for a missing invoice", func() {
			err := service.ScheduleRentReminder(404, time.Now())

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.scheduled).To(BeEmpty())
		})

		It("should propagate billing lookup failures", func() {
			billingRepo.err = errors.New("connection refused")

			err := service.ScheduleRentReminder(5, time.Now())

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ScheduleLeaseExpiryNotification", func() {
		It("should schedule the notice daysBeforeExpiry ahead of the end date", func() {
			endDate := time.Now().AddDate(0, 2, 0).Truncate(24 * time.Hour)
			billingRepo.leases[3] = &billingDatamodel.Lease{
				ID:       3,
				TenantID: 88,
				EndDate:  endDate,
			}

			err := service.ScheduleLeaseExpiryNotification(3, 30)

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.scheduled).To(HaveLen(1))
			s := mockRepo.scheduled[1]
			Expect(s.RecipientID).To(Equal(int64(88)))
			Expect(s.TriggerDate).To(Equal(endDate.AddDate(0, 0, -30)))
			Expect(s.NotificationType).To(Equal(notification.TypeLeaseExpiry))
		})

		It("should warn and write no row when the trigger is already past", func() {
			billingRepo.leases[3] = &billingDatamodel.Lease{
				ID:       3,
				TenantID: 88,
				EndDate:  time.Now().AddDate(0, 0, 10),
			}

			err := service.ScheduleLeaseExpiryNotification(3, 30)

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.scheduled).To(BeEmpty())
		})

		It("should warn and do nothing for a missing lease", func() {
			err := service.ScheduleLeaseExpiryNotification(404, 30)

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.scheduled).To(BeEmpty())
		})
	})

	Describe("ProcessPendingNotifications", func() {
		It("should deliver due pending rows and mark them sent", func() {
			id := schedulePending(10, time.Now().Add(-time.Hour))

			result, err := service.ProcessPendingNotifications()

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Processed).To(Equal(1))
			Expect(result.Sent).To(Equal(1))
			Expect(result.Failed).To(Equal(0))

			Expect(mockRepo.scheduled[id].Status).To(Equal(notification.StatusSent))
			Expect(mockRepo.scheduled[id].SentAt).NotTo(BeNil())
			Expect(mockRepo.delivered).To(HaveLen(1))
			Expect(mockRepo.delivered[0].UserID).To(Equal(int64(10)))
			Expect(mockRepo.delivered[0].IsRead).To(BeFalse())
		})

		It("should leave future rows untouched", func() {
			id := schedulePending(10, time.Now().Add(time.Hour))

			result, err := service.ProcessPendingNotifications()

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Processed).To(Equal(0))
			Expect(mockRepo.scheduled[id].Status).To(Equal(notification.StatusPending))
		})

		It("should isolate per-item failures and keep sweeping", func() {
			first := schedulePending(10, time.Now().Add(-time.Hour))
			second := schedulePending(20, time.Now().Add(-time.Hour))
			third := schedulePending(30, time.Now().Add(-time.Hour))

			mockRepo.failDeliveryFor[20] = errors.New("smtp refused")

			result, err := service.ProcessPendingNotifications()

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Processed).To(Equal(3))
			Expect(result.Sent).To(Equal(2))
			Expect(result.Failed).To(Equal(1))

			Expect(mockRepo.scheduled[first].Status).To(Equal(notification.StatusSent))
			Expect(mockRepo.scheduled[second].Status).To(Equal(notification.StatusFailed))
			Expect(mockRepo.scheduled[third].Status).To(Equal(notification.StatusSent))
			Expect(mockRepo.delivered).To(HaveLen(2))
		})

		It("should be idempotent across runs", func() {
			schedulePending(10, time.Now().Add(-time.Hour))

			first, err := service.ProcessPendingNotifications()
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Sent).To(Equal(1))

			second, err := service.ProcessPendingNotifications()
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Processed).To(Equal(0))
			Expect(mockRepo.delivered).To(HaveLen(1))
		})

		It("should not retry failed rows on later sweeps", func() {
			schedulePending(20, time.Now().Add(-time.Hour))
			mockRepo.failDeliveryFor[20] = errors.New("smtp refused")

			_, err := service.ProcessPendingNotifications()
			Expect(err).NotTo(HaveOccurred())

			delete(mockRepo.failDeliveryFor, 20)
			result, err := service.ProcessPendingNotifications()
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Processed).To(Equal(0))
		})
	})

	Describe("CancelScheduledNotification", func() {
		It("should cancel a pending row", func() {
			id := schedulePending(10, time.Now().Add(time.Hour))

			err := service.CancelScheduledNotification(id)

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.scheduled[id].Status).To(Equal(notification.StatusCancelled))
		})

		It("should be a no-op for an already sent row", func() {
			id := schedulePending(10, time.Now().Add(-time.Hour))
			_, err := service.ProcessPendingNotifications()
			Expect(err).NotTo(HaveOccurred())

			err = service.CancelScheduledNotification(id)

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.scheduled[id].Status).To(Equal(notification.StatusSent))
		})

		It("should return not found for a missing row", func() {
			err := service.CancelScheduledNotification(404)

			Expect(err).To(Equal(internal.ErrNotificationNotFound))
		})

		It("should keep a cancelled row out of later sweeps", func() {
			id := schedulePending(10, time.Now().Add(-time.Hour))
			Expect(service.CancelScheduledNotification(id)).To(Succeed())

			result, err := service.ProcessPendingNotifications()
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Processed).To(Equal(0))
			Expect(mockRepo.delivered).To(BeEmpty())
		})
	})

	Describe("notification feed", func() {
		It("should list and mark a user's own notifications", func() {
			schedulePending(10, time.Now().Add(-time.Hour))
			_, err := service.ProcessPendingNotifications()
			Expect(err).NotTo(HaveOccurred())

			feed, err := service.GetUserNotifications(10, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(feed).To(HaveLen(1))

			Expect(service.MarkNotificationRead(feed[0].ID, 10)).To(Succeed())
			Expect(mockRepo.delivered[0].IsRead).To(BeTrue())
		})

		It("should refuse to mark another user's notification", func() {
			schedulePending(10, time.Now().Add(-time.Hour))
			_, err := service.ProcessPendingNotifications()
			Expect(err).NotTo(HaveOccurred())

			err = service.MarkNotificationRead(mockRepo.delivered[0].ID, 99)
			Expect(err).To(Equal(internal.ErrNotificationNotFound))
		})
	})
})
