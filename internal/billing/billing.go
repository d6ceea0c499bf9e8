package billing

import (
	billingDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/billing"
)

// Repository is the read-model access the governance core needs: the
// notification dispatcher resolves invoices and leases to render
// messages, and approval replay materializes approved lease rows. The
// wider billing CRUD lives outside this service.
type Repository interface {
	GetInvoiceByID(id int64) (*billingDatamodel.Invoice, error)
	GetLeaseByID(id int64) (*billingDatamodel.Lease, error)
	CreateLease(lease *billingDatamodel.Lease) error
}
