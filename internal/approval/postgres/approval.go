package postgres

import (
	"time"

	"github.com/rumahkita/property-management/internal/approval"
	approvalDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/approval"
	"gorm.io/gorm"
)

type ApprovalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) approval.Repository {
	return &ApprovalRepository{db: db}
}

func (r *ApprovalRepository) Create(record *approvalDatamodel.StaffActionApproval) error {
	return r.db.Create(record).Error
}

func (r *ApprovalRepository) GetByID(id int64) (*approvalDatamodel.StaffActionApproval, error) {
	var record approvalDatamodel.StaffActionApproval
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *ApprovalRepository) GetByStatus(status string, limit, offset int) ([]*approvalDatamodel.StaffActionApproval, error) {
	var records []*approvalDatamodel.StaffActionApproval
	err := r.db.Where("status = ?", status).
		Order("submitted_at ASC"). // FIFO for review queues
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, err
}

func (r *ApprovalRepository) GetByStaffID(staffID int64, limit, offset int) ([]*approvalDatamodel.StaffActionApproval, error) {
	var records []*approvalDatamodel.StaffActionApproval
	err := r.db.Where("staff_id = ?", staffID).
		Order("submitted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, err
}

// UpdateStatus transitions the record only if its status still equals
// fromStatus. The WHERE clause is the compare-and-set; RowsAffected == 0
// means another reviewer got there first.
func (r *ApprovalRepository) UpdateStatus(id int64, fromStatus, toStatus string, adminID int64, notes *string, reviewedAt time.Time) (bool, error) {
	result := r.db.Model(&approvalDatamodel.StaffActionApproval{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(map[string]interface{}{
			"status":      toStatus,
			"admin_id":    adminID,
			"admin_notes": notes,
			"reviewed_at": reviewedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
