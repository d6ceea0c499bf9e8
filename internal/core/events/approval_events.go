package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeApprovalSubmitted = "approval.submitted"
	EventTypeApprovalApproved  = "approval.approved"
	EventTypeApprovalRejected  = "approval.rejected"
)

// ApprovalApprovedEvent carries the captured action payload back to the
// business module that owns the target table. Handlers registered for it
// perform the actual replay of the deferred mutation.
type ApprovalApprovedEvent struct {
	BaseEvent
	ApprovalID int64  `json:"approval_id"`
	StaffID    int64  `json:"staff_id"`
	AdminID    int64  `json:"admin_id"`
	ActionType string `json:"action_type"`
	TableName  string `json:"table_name"`
	RecordID   *int64 `json:"record_id,omitempty"`
	ActionData string `json:"action_data"`
}

func NewApprovalApprovedEvent(approvalID, staffID, adminID int64, actionType, tableName string, recordID *int64, actionData string) *ApprovalApprovedEvent {
	return &ApprovalApprovedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeApprovalApproved,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"approval_id": approvalID,
				"staff_id":    staffID,
				"admin_id":    adminID,
				"action_type": actionType,
				"table_name":  tableName,
			},
		},
		ApprovalID: approvalID,
		StaffID:    staffID,
		AdminID:    adminID,
		ActionType: actionType,
		TableName:  tableName,
		RecordID:   recordID,
		ActionData: actionData,
	}
}

type ApprovalSubmittedEvent struct {
	BaseEvent
	ApprovalID int64  `json:"approval_id"`
	StaffID    int64  `json:"staff_id"`
	ActionType string `json:"action_type"`
	TableName  string `json:"table_name"`
}

func NewApprovalSubmittedEvent(approvalID, staffID int64, actionType, tableName string) *ApprovalSubmittedEvent {
	return &ApprovalSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeApprovalSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"approval_id": approvalID,
				"staff_id":    staffID,
				"action_type": actionType,
				"table_name":  tableName,
			},
		},
		ApprovalID: approvalID,
		StaffID:    staffID,
		ActionType: actionType,
		TableName:  tableName,
	}
}

type ApprovalRejectedEvent struct {
	BaseEvent
	ApprovalID int64  `json:"approval_id"`
	StaffID    int64  `json:"staff_id"`
	AdminID    int64  `json:"admin_id"`
	Notes      string `json:"notes"`
}

func NewApprovalRejectedEvent(approvalID, staffID, adminID int64, notes string) *ApprovalRejectedEvent {
	return &ApprovalRejectedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeApprovalRejected,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"approval_id": approvalID,
				"staff_id":    staffID,
				"admin_id":    adminID,
			},
		},
		ApprovalID: approvalID,
		StaffID:    staffID,
		AdminID:    adminID,
		Notes:      notes,
	}
}
