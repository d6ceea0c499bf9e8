package postgres

import (
	"github.com/rumahkita/property-management/internal/audit"
	auditDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/audit"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.RepositoryAPI {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(log *auditDatamodel.AuditLog) error {
	return r.db.Create(log).Error
}

func (r *AuditRepository) GetAll(filter audit.QueryFilter) ([]*auditDatamodel.AuditLog, error) {
	query := r.db.Model(&auditDatamodel.AuditLog{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ActionType != "" {
		query = query.Where("action_type = ?", filter.ActionType)
	}
	if filter.TableName != "" {
		query = query.Where("table_name = ?", filter.TableName)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at <= ?", filter.To)
	}

	var logs []*auditDatamodel.AuditLog
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&logs).Error
	return logs, err
}

func (r *AuditRepository) GetByID(id int64) (*auditDatamodel.AuditLog, error) {
	var log auditDatamodel.AuditLog
	err := r.db.Where("id = ?", id).First(&log).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}
