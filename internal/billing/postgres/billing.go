package postgres

import (
	"github.com/rumahkita/property-management/internal/billing"
	billingDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/billing"
	"gorm.io/gorm"
)

type BillingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) billing.Repository {
	return &BillingRepository{db: db}
}

func (r *BillingRepository) GetInvoiceByID(id int64) (*billingDatamodel.Invoice, error) {
	var invoice billingDatamodel.Invoice
	err := r.db.Where("id = ?", id).First(&invoice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *BillingRepository) GetLeaseByID(id int64) (*billingDatamodel.Lease, error) {
	var lease billingDatamodel.Lease
	err := r.db.Where("id = ?", id).First(&lease).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &lease, nil
}

func (r *BillingRepository) CreateLease(lease *billingDatamodel.Lease) error {
	return r.db.Create(lease).Error
}
