package approval

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/rumahkita/property-management/internal/auth"
	"github.com/rumahkita/property-management/internal/core/common/validation"
	"github.com/rumahkita/property-management/internal/transport"
)

type ServiceAPI interface {
	Submit(staffID int64, dto SubmitApprovalDTO) (*Approval, error)
	Approve(approvalID, adminID int64, notes string) (*Approval, error)
	Reject(approvalID, adminID int64, notes string) (*Approval, error)
	GetByID(approvalID int64) (*Approval, error)
	GetPending(limit, offset int) ([]*Approval, error)
	GetByStatus(status string, limit, offset int) ([]*Approval, error)
	GetByStaffID(staffID int64, limit, offset int) ([]*Approval, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) SubmitApproval(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto SubmitApprovalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Submit(user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) ApproveAction(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Service.Approve)
}

func (h *Handler) RejectAction(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, func(approvalID, adminID int64, notes string) (*Approval, error) {
		if err := validation.ValidateRejectionNotes(notes); err != nil {
			return nil, err
		}
		return h.Service.Reject(approvalID, adminID, notes)
	})
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, decide func(approvalID, adminID int64, notes string) (*Approval, error)) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	approvalID, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid approval id")
		return
	}

	var dto ReviewApprovalDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	result, err := decide(approvalID, user.ID, dto.Notes)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GetApproval(w http.ResponseWriter, r *http.Request) {
	approvalID, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid approval id")
		return
	}

	result, err := h.Service.GetByID(approvalID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// GetApprovals lists approval records. Admins see the full queue filtered
// by ?status (default pending); staff see their own submissions.
func (h *Handler) GetApprovals(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit, offset := parsePagination(r)

	var (
		approvals []*Approval
		err       error
	)
	if user.HasPermission("approvals.review") {
		status := r.URL.Query().Get("status")
		if status == "" {
			status = StatusPending
		}
		approvals, err = h.Service.GetByStatus(status, limit, offset)
	} else {
		approvals, err = h.Service.GetByStaffID(user.ID, limit, offset)
	}
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if approvals == nil {
		approvals = []*Approval{}
	}

	h.WriteJSON(w, http.StatusOK, ApprovalsResponse{
		Approvals: approvals,
		Limit:     limit,
		Offset:    offset,
	})
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
