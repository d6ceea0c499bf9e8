package billing_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rumahkita/property-management/internal/approval"
	"github.com/rumahkita/property-management/internal/billing"
	billingDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/billing"
	"github.com/rumahkita/property-management/internal/core/events"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestBillingAppliers(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Billing Appliers Suite")
}

// mockBillingRepository implements billing.Repository
type mockBillingRepository struct {
	leases     []*billingDatamodel.Lease
	createFail error
}

func (m *mockBillingRepository) GetInvoiceByID(id int64) (*billingDatamodel.Invoice, error) {
	return nil, nil
}

func (m *mockBillingRepository) GetLeaseByID(id int64) (*billingDatamodel.Lease, error) {
	return nil, nil
}

func (m *mockBillingRepository) CreateLease(lease *billingDatamodel.Lease) error {
	if m.createFail != nil {
		return m.createFail
	}
	lease.ID = int64(len(m.leases) + 1)
	m.leases = append(m.leases, lease)
	return nil
}

var _ = Describe("Lease Applier", func() {
	var (
		repo     *mockBillingRepository
		registry *approval.ApplierRegistry
		bus      *events.EventBus
		logger   *slog.Logger
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = &mockBillingRepository{}
		registry = approval.NewApplierRegistry(logger)
		billing.RegisterAppliers(registry, repo, logger)
		bus = events.NewEventBus(logger)
		registry.Attach(bus)
	})

	approvedEvent := func(actionData string) *events.ApprovalApprovedEvent {
		return events.NewApprovalApprovedEvent(1, 10, 20, approval.ActionTypeLeaseCreated, "leases", nil, actionData)
	}

	Context("when a lease_created approval is approved", func() {
		It("should materialize the lease row from the captured payload", func() {
			payload := `{"unit_id": 301, "tenant_id": 42, "start_date": "2026-09-01", "end_date": "2027-08-31", "rent_amount_idr": 5500000}`

			err := bus.PublishSync(context.Background(), approvedEvent(payload))
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.leases).To(HaveLen(1))
			lease := repo.leases[0]
			Expect(lease.UnitID).To(Equal(int64(301)))
			Expect(lease.TenantID).To(Equal(int64(42)))
			Expect(lease.RentAmountIDR).To(Equal(int64(5500000)))
			Expect(lease.Status).To(Equal("active"))
			Expect(lease.StartDate).To(Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
			Expect(lease.EndDate).To(Equal(time.Date(2027, 8, 31, 0, 0, 0, 0, time.UTC)))
		})
	})

	Context("when the payload is malformed", func() {
		It("should fail on invalid JSON without creating a lease", func() {
			err := bus.PublishSync(context.Background(), approvedEvent(`{not json`))
			Expect(err).To(HaveOccurred())
			Expect(repo.leases).To(BeEmpty())
		})

		It("should fail on an unparseable date", func() {
			payload := `{"unit_id": 1, "tenant_id": 2, "start_date": "next tuesday", "end_date": "2027-08-31", "rent_amount_idr": 100}`

			err := bus.PublishSync(context.Background(), approvedEvent(payload))
			Expect(err).To(HaveOccurred())
			Expect(repo.leases).To(BeEmpty())
		})
	})
})
