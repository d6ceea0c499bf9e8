package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rumahkita/property-management/internal/approval"
	billingDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/billing"
)

type leasePayload struct {
	UnitID        int64  `json:"unit_id"`
	TenantID      int64  `json:"tenant_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	RentAmountIDR int64  `json:"rent_amount_idr"`
}

// RegisterAppliers hooks the lease applier into the approval replay
// registry. An approved lease_created submission becomes a real lease
// row here.
func RegisterAppliers(registry *approval.ApplierRegistry, repo Repository, logger *slog.Logger) {
	registry.Register(approval.ActionTypeLeaseCreated, func(ctx context.Context, tableName string, recordID *int64, actionData string) error {
		var payload leasePayload
		if err := json.Unmarshal([]byte(actionData), &payload); err != nil {
			return fmt.Errorf("decode lease payload: %w", err)
		}

		startDate, err := time.Parse("2006-01-02", payload.StartDate)
		if err != nil {
			return fmt.Errorf("parse lease start date: %w", err)
		}
		endDate, err := time.Parse("2006-01-02", payload.EndDate)
		if err != nil {
			return fmt.Errorf("parse lease end date: %w", err)
		}

		lease := &billingDatamodel.Lease{
			UnitID:        payload.UnitID,
			TenantID:      payload.TenantID,
			StartDate:     startDate,
			EndDate:       endDate,
			RentAmountIDR: payload.RentAmountIDR,
			Status:        "active",
		}

		if err := repo.CreateLease(lease); err != nil {
			return fmt.Errorf("create lease: %w", err)
		}

		logger.Info("lease created from approved submission",
			"lease_id", lease.ID,
			"unit_id", lease.UnitID,
			"tenant_id", lease.TenantID)
		return nil
	})
}
