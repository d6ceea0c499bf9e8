package approval

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/rumahkita/property-management/internal"
	"github.com/rumahkita/property-management/internal/audit"
	approvalDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/approval"
	"github.com/rumahkita/property-management/internal/core/events"
)

// Repository is the persistence contract for approval records.
// UpdateStatus is a compare-and-set: it transitions the row only when its
// current status still matches fromStatus, and reports whether a row was
// actually updated. That re-check is what keeps concurrent reviewers from
// double-deciding the same record.
type Repository interface {
	Create(record *approvalDatamodel.StaffActionApproval) error
	GetByID(id int64) (*approvalDatamodel.StaffActionApproval, error)
	GetByStatus(status string, limit, offset int) ([]*approvalDatamodel.StaffActionApproval, error)
	GetByStaffID(staffID int64, limit, offset int) ([]*approvalDatamodel.StaffActionApproval, error)
	UpdateStatus(id int64, fromStatus, toStatus string, adminID int64, notes *string, reviewedAt time.Time) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo     Repository
	auditor  audit.Logger
	eventBus EventPublisher
	logger   *slog.Logger
}

func NewService(repo Repository, auditor audit.Logger, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		auditor:  auditor,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Submit queues a staff action for admin review. The action payload is
// stored verbatim; nothing is applied until an admin approves.
func (s *Service) Submit(staffID int64, dto SubmitApprovalDTO) (*Approval, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("approval submission validation failed", "error", err, "staff_id", staffID)
		return nil, err
	}

	record := &approvalDatamodel.StaffActionApproval{
		StaffID:     staffID,
		ActionType:  dto.ActionType,
		TableName_:  dto.TableName,
		RecordID:    dto.RecordID,
		ActionData:  string(dto.ActionData),
		Status:      StatusPending,
		SubmittedAt: time.Now(),
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create approval record", "error", err, "staff_id", staffID)
		return nil, internal.NewInternalError("failed to submit approval", err)
	}

	result := FromDataModel(record)

	s.auditor.LogObjects(staffID, audit.ActionCreate, record.TableName(), nil, result)

	if err := s.eventBus.Publish(context.Background(),
		events.NewApprovalSubmittedEvent(record.ID, staffID, record.ActionType, record.TableName_)); err != nil {
		s.logger.Warn("failed to publish approval submitted event", "error", err, "approval_id", record.ID)
	}

	s.logger.Info("approval submitted",
		"approval_id", record.ID,
		"staff_id", staffID,
		"action_type", record.ActionType,
		"target_table", record.TableName_)

	return result, nil
}

// Approve marks a pending approval as approved and hands the captured
// payload to the owning module through the event bus. Notes are optional.
func (s *Service) Approve(approvalID, adminID int64, notes string) (*Approval, error) {
	record, err := s.getPending(approvalID, "approval")
	if err != nil {
		return nil, err
	}

	var notesPtr *string
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		notesPtr = &trimmed
	}

	updated, err := s.transition(record, StatusApproved, adminID, notesPtr)
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(context.Background(),
		events.NewApprovalApprovedEvent(updated.ID, updated.StaffID, adminID,
			updated.ActionType, updated.TableName, updated.RecordID, updated.ActionData)); err != nil {
		s.logger.Warn("failed to publish approval approved event", "error", err, "approval_id", updated.ID)
	}

	s.logger.Info("approval approved",
		"approval_id", updated.ID,
		"admin_id", adminID,
		"action_type", updated.ActionType)

	return updated, nil
}

// Reject marks a pending approval as rejected. Notes are mandatory so the
// submitting staff member learns why.
func (s *Service) Reject(approvalID, adminID int64, notes string) (*Approval, error) {
	trimmed := strings.TrimSpace(notes)
	if trimmed == "" {
		s.logger.Warn("rejection without notes refused", "approval_id", approvalID, "admin_id", adminID)
		return nil, internal.ErrNotesRequired
	}

	record, err := s.getPending(approvalID, "rejection")
	if err != nil {
		return nil, err
	}

	updated, err := s.transition(record, StatusRejected, adminID, &trimmed)
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(context.Background(),
		events.NewApprovalRejectedEvent(updated.ID, updated.StaffID, adminID, trimmed)); err != nil {
		s.logger.Warn("failed to publish approval rejected event", "error", err, "approval_id", updated.ID)
	}

	s.logger.Info("approval rejected",
		"approval_id", updated.ID,
		"admin_id", adminID,
		"notes", trimmed)

	return updated, nil
}

func (s *Service) GetByID(approvalID int64) (*Approval, error) {
	record, err := s.repo.GetByID(approvalID)
	if err != nil {
		s.logger.Error("failed to load approval", "error", err, "approval_id", approvalID)
		return nil, internal.NewInternalError("failed to load approval", err)
	}
	if record == nil {
		return nil, internal.ErrApprovalNotFound
	}
	return FromDataModel(record), nil
}

func (s *Service) GetPending(limit, offset int) ([]*Approval, error) {
	return s.list(func() ([]*approvalDatamodel.StaffActionApproval, error) {
		return s.repo.GetByStatus(StatusPending, limit, offset)
	})
}

func (s *Service) GetByStatus(status string, limit, offset int) ([]*Approval, error) {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
	default:
		return nil, internal.NewValidationFieldError("status", "unknown approval status", internal.ErrCodeValidationFailed)
	}
	return s.list(func() ([]*approvalDatamodel.StaffActionApproval, error) {
		return s.repo.GetByStatus(status, limit, offset)
	})
}

func (s *Service) GetByStaffID(staffID int64, limit, offset int) ([]*Approval, error) {
	return s.list(func() ([]*approvalDatamodel.StaffActionApproval, error) {
		return s.repo.GetByStaffID(staffID, limit, offset)
	})
}

func (s *Service) list(query func() ([]*approvalDatamodel.StaffActionApproval, error)) ([]*Approval, error) {
	records, err := query()
	if err != nil {
		s.logger.Error("failed to list approvals", "error", err)
		return nil, internal.NewInternalError("failed to list approvals", err)
	}

	approvals := make([]*Approval, 0, len(records))
	for _, record := range records {
		approvals = append(approvals, FromDataModel(record))
	}
	return approvals, nil
}

func (s *Service) getPending(approvalID int64, intent string) (*approvalDatamodel.StaffActionApproval, error) {
	record, err := s.repo.GetByID(approvalID)
	if err != nil {
		s.logger.Error("failed to load approval for review", "error", err, "approval_id", approvalID)
		return nil, internal.NewInternalError("failed to load approval", err)
	}
	if record == nil {
		s.logger.Warn("approval not found for review", "approval_id", approvalID, "intent", intent)
		return nil, internal.ErrApprovalNotFound
	}
	if record.Status != StatusPending {
		s.logger.Warn("approval already reviewed",
			"approval_id", approvalID,
			"current_status", record.Status,
			"intent", intent)
		return nil, internal.ErrApprovalNotPending
	}
	return record, nil
}

// transition performs the compare-and-set status update and writes the
// audit entry. The pending precondition is re-checked inside UpdateStatus;
// a lost race surfaces as ErrApprovalNotPending even though the earlier
// read saw pending.
func (s *Service) transition(record *approvalDatamodel.StaffActionApproval, toStatus string, adminID int64, notes *string) (*Approval, error) {
	before := FromDataModel(record)
	reviewedAt := time.Now()

	applied, err := s.repo.UpdateStatus(record.ID, StatusPending, toStatus, adminID, notes, reviewedAt)
	if err != nil {
		s.logger.Error("failed to update approval status",
			"error", err, "approval_id", record.ID, "to_status", toStatus)
		return nil, internal.NewInternalError("failed to update approval status", err)
	}
	if !applied {
		s.logger.Warn("approval review lost the race", "approval_id", record.ID, "to_status", toStatus)
		return nil, internal.ErrApprovalNotPending
	}

	record.Status = toStatus
	record.AdminID = &adminID
	record.AdminNotes = notes
	record.ReviewedAt = &reviewedAt
	after := FromDataModel(record)

	s.auditor.LogObjects(adminID, audit.ActionUpdate, record.TableName(), before, after)

	return after, nil
}
