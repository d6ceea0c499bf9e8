package approval

import (
	"time"

	approvalDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/approval"
)

// Action types a staff member can queue for review. The set is closed;
// Submit rejects anything else.
const (
	ActionTypeCreate       = "create"
	ActionTypeUpdate       = "update"
	ActionTypeDelete       = "delete"
	ActionTypeLeaseCreated = "lease_created"
)

// Approval states. Pending is the only non-terminal state; approved and
// rejected records are immutable and never deleted.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Approval struct {
	ID          int64      `json:"id"`
	StaffID     int64      `json:"staff_id"`
	ActionType  string     `json:"action_type"`
	TableName   string     `json:"table_name"`
	RecordID    *int64     `json:"record_id,omitempty"`
	ActionData  string     `json:"action_data"`
	Status      string     `json:"status"`
	AdminID     *int64     `json:"admin_id,omitempty"`
	AdminNotes  *string    `json:"admin_notes,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
}

func (a *Approval) CanBeReviewed() bool {
	return a.Status == StatusPending
}

func IsValidActionType(actionType string) bool {
	switch actionType {
	case ActionTypeCreate, ActionTypeUpdate, ActionTypeDelete, ActionTypeLeaseCreated:
		return true
	}
	return false
}

func ToDataModel(a *Approval) *approvalDatamodel.StaffActionApproval {
	return &approvalDatamodel.StaffActionApproval{
		ID:          a.ID,
		StaffID:     a.StaffID,
		ActionType:  a.ActionType,
		TableName_:  a.TableName,
		RecordID:    a.RecordID,
		ActionData:  a.ActionData,
		Status:      a.Status,
		AdminID:     a.AdminID,
		AdminNotes:  a.AdminNotes,
		SubmittedAt: a.SubmittedAt,
		ReviewedAt:  a.ReviewedAt,
	}
}

func FromDataModel(m *approvalDatamodel.StaffActionApproval) *Approval {
	return &Approval{
		ID:          m.ID,
		StaffID:     m.StaffID,
		ActionType:  m.ActionType,
		TableName:   m.TableName_,
		RecordID:    m.RecordID,
		ActionData:  m.ActionData,
		Status:      m.Status,
		AdminID:     m.AdminID,
		AdminNotes:  m.AdminNotes,
		SubmittedAt: m.SubmittedAt,
		ReviewedAt:  m.ReviewedAt,
	}
}
