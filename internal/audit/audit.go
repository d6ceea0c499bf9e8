package audit

import (
	"time"

	auditDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/audit"
)

// Action types recorded against audit entries. The set is closed; rows
// written with anything else are a programming error upstream.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

type Entry struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	ActionType string    `json:"action_type"`
	TableName  string    `json:"table_name"`
	OldValues  *string   `json:"old_values,omitempty"`
	NewValues  *string   `json:"new_values,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// QueryFilter narrows GetAll. Zero values mean "no constraint".
type QueryFilter struct {
	UserID     int64
	ActionType string
	TableName  string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

func IsValidAction(actionType string) bool {
	switch actionType {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

func FromDataModel(m *auditDatamodel.AuditLog) *Entry {
	return &Entry{
		ID:         m.ID,
		UserID:     m.UserID,
		ActionType: m.ActionType,
		TableName:  m.TableName_,
		OldValues:  m.OldValues,
		NewValues:  m.NewValues,
		CreatedAt:  m.CreatedAt,
	}
}
