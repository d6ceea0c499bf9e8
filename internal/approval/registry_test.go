package approval_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/rumahkita/property-management/internal/approval"
	"github.com/rumahkita/property-management/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ApplierRegistry", func() {
	var (
		registry *approval.ApplierRegistry
		bus      *events.EventBus
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	BeforeEach(func() {
		registry = approval.NewApplierRegistry(testLogger)
		bus = events.NewEventBus(testLogger)
		registry.Attach(bus)
	})

	It("should dispatch approved payloads to the applier for the action type", func() {
		var gotTable string
		var gotData string
		registry.Register(approval.ActionTypeLeaseCreated, func(ctx context.Context, tableName string, recordID *int64, actionData string) error {
			gotTable = tableName
			gotData = actionData
			return nil
		})

		event := events.NewApprovalApprovedEvent(1, 10, 99,
			approval.ActionTypeLeaseCreated, "leases", nil, `{"unit_id":3}`)
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		Expect(gotTable).To(Equal("leases"))
		Expect(gotData).To(MatchJSON(`{"unit_id":3}`))
	})

	It("should pass the record id through for updates", func() {
		var gotRecordID *int64
		registry.Register(approval.ActionTypeUpdate, func(ctx context.Context, tableName string, recordID *int64, actionData string) error {
			gotRecordID = recordID
			return nil
		})

		recordID := int64(42)
		event := events.NewApprovalApprovedEvent(1, 10, 99,
			approval.ActionTypeUpdate, "leases", &recordID, `{}`)
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		Expect(gotRecordID).NotTo(BeNil())
		Expect(*gotRecordID).To(Equal(int64(42)))
	})

	It("should skip action types with no registered applier", func() {
		event := events.NewApprovalApprovedEvent(1, 10, 99,
			approval.ActionTypeDelete, "leases", nil, `{}`)
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())
	})

	It("should surface applier failures to the bus", func() {
		registry.Register(approval.ActionTypeCreate, func(ctx context.Context, tableName string, recordID *int64, actionData string) error {
			return errors.New("constraint violation")
		})

		event := events.NewApprovalApprovedEvent(1, 10, 99,
			approval.ActionTypeCreate, "leases", nil, `{}`)
		Expect(bus.PublishSync(context.Background(), event)).NotTo(Succeed())
	})
})
