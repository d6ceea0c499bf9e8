package notification

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/rumahkita/property-management/internal/auth"
	notificationDatamodel "github.com/rumahkita/property-management/internal/core/datamodel/notification"
	"github.com/rumahkita/property-management/internal/transport"
)

type ServiceAPI interface {
	ScheduleRentReminder(invoiceID int64, reminderDate time.Time) error
	ScheduleLeaseExpiryNotification(leaseID int64, daysBeforeExpiry int) error
	ProcessPendingNotifications() (ProcessResult, error)
	CancelScheduledNotification(id int64) error
	GetScheduledByID(id int64) (*Scheduled, error)
	GetScheduledForRecipient(recipientID int64, limit, offset int) ([]*Scheduled, error)
	GetUserNotifications(userID int64, limit, offset int) ([]*notificationDatamodel.Notification, error)
	MarkNotificationRead(id, userID int64) error
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

func (h *Handler) ScheduleRentReminder(w http.ResponseWriter, r *http.Request) {
	var dto ScheduleRentReminderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.ScheduleRentReminder(dto.InvoiceID, dto.ReminderDate); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) ScheduleLeaseExpiry(w http.ResponseWriter, r *http.Request) {
	var dto ScheduleLeaseExpiryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.ScheduleLeaseExpiryNotification(dto.LeaseID, dto.DaysBeforeExpiry); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) CancelScheduled(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.Service.CancelScheduledNotification(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetScheduled(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	scheduled, err := h.Service.GetScheduledByID(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, scheduled)
}

// GetMyScheduled lists the authenticated user's own scheduled notices.
func (h *Handler) GetMyScheduled(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit, offset := parsePagination(r)
	scheduled, err := h.Service.GetScheduledForRecipient(user.ID, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if scheduled == nil {
		scheduled = []*Scheduled{}
	}

	h.WriteJSON(w, http.StatusOK, ScheduledResponse{
		Scheduled: scheduled,
		Limit:     limit,
		Offset:    offset,
	})
}

// RunSweep triggers one dispatch pass. The periodic worker does the same
// on a timer; the endpoint exists for operations.
func (h *Handler) RunSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.ProcessPendingNotifications()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GetMyNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit, offset := parsePagination(r)
	notifications, err := h.Service.GetUserNotifications(user.ID, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if notifications == nil {
		notifications = []*notificationDatamodel.Notification{}
	}

	h.WriteJSON(w, http.StatusOK, FeedResponse{
		Notifications: notifications,
		Limit:         limit,
		Offset:        offset,
	})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.Service.MarkNotificationRead(id, user.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
