package approval

import (
	"encoding/json"

	"github.com/rumahkita/property-management/internal"
	"github.com/rumahkita/property-management/internal/core/common/validation"
)

// SubmitApprovalDTO is the request payload for queuing a staff action.
type SubmitApprovalDTO struct {
	ActionType string          `json:"action_type" validate:"required"`
	TableName  string          `json:"table_name" validate:"required"`
	RecordID   *int64          `json:"record_id,omitempty"`
	ActionData json.RawMessage `json:"action_data" validate:"required"`
}

func (dto SubmitApprovalDTO) Validate() error {
	if !IsValidActionType(dto.ActionType) {
		return internal.ErrInvalidActionType
	}
	if err := validation.ValidateTableName(dto.TableName); err != nil {
		return err
	}
	if len(dto.ActionData) == 0 {
		return internal.NewValidationFieldError("action_data", "action data is required", internal.ErrCodeValidationFailed)
	}
	if !json.Valid(dto.ActionData) {
		return internal.NewValidationFieldError("action_data", "action data must be valid JSON", internal.ErrCodeValidationFailed)
	}
	return nil
}

// ReviewApprovalDTO carries the reviewing admin's notes. Notes are
// optional on approval and mandatory on rejection; the service enforces
// the latter.
type ReviewApprovalDTO struct {
	Notes string `json:"admin_notes,omitempty"`
}

type ApprovalsResponse struct {
	Approvals []*Approval `json:"approvals"`
	Limit     int         `json:"limit"`
	Offset    int         `json:"offset"`
}
