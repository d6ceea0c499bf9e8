package audit

import (
	"encoding/json"
	"log/slog"
	"time"

	auditDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/audit"
)

type RepositoryAPI interface {
	Create(log *auditDatamodel.AuditLog) error
	GetAll(filter QueryFilter) ([]*auditDatamodel.AuditLog, error)
	GetByID(id int64) (*auditDatamodel.AuditLog, error)
}

// Logger is the write-side interface other services depend on. Keeping it
// narrow lets callers take audit logging without the query side.
type Logger interface {
	LogAction(userID int64, actionType, tableName string, oldValues, newValues *string)
	LogObjects(userID int64, actionType, tableName string, oldObject, newObject any)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// LogAction appends an audit row. It never returns an error: audit is
// best-effort and must not fail the operation being audited. Failures are
// logged and dropped.
func (s *Service) LogAction(userID int64, actionType, tableName string, oldValues, newValues *string) {
	if !IsValidAction(actionType) {
		s.logger.Warn("audit entry dropped: unknown action type",
			"action_type", actionType, "table_name", tableName, "user_id", userID)
		return
	}

	entry := &auditDatamodel.AuditLog{
		UserID:     userID,
		ActionType: actionType,
		TableName_: tableName,
		OldValues:  oldValues,
		NewValues:  newValues,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(entry); err != nil {
		s.logger.Error("failed to write audit entry",
			"error", err, "action_type", actionType, "table_name", tableName, "user_id", userID)
	}
}

// LogObjects serializes the before/after snapshots to JSON and delegates
// to LogAction. A snapshot that cannot be serialized is recorded as nil
// rather than aborting the entry.
func (s *Service) LogObjects(userID int64, actionType, tableName string, oldObject, newObject any) {
	s.LogAction(userID, actionType, tableName, s.marshal(oldObject), s.marshal(newObject))
}

func (s *Service) marshal(object any) *string {
	if object == nil {
		return nil
	}
	data, err := json.Marshal(object)
	if err != nil {
		s.logger.Error("failed to serialize audit snapshot", "error", err)
		return nil
	}
	str := string(data)
	return &str
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func (s *Service) GetAll(filter QueryFilter) ([]*Entry, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	rows, err := s.repo.GetAll(filter)
	if err != nil {
		s.logger.Error("failed to query audit entries", "error", err)
		return nil, err
	}

	entries := make([]*Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, FromDataModel(row))
	}
	return entries, nil
}

func (s *Service) GetByID(id int64) (*Entry, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to load audit entry", "error", err, "id", id)
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return FromDataModel(row), nil
}
