package audit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/rumahkita/property-management/internal/transport"
)

type ServiceAPI interface {
	GetAll(filter QueryFilter) ([]*Entry, error)
	GetByID(id int64) (*Entry, error)
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

type EntriesResponse struct {
	Entries []*Entry `json:"entries"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}

// GetAuditLogs lists audit entries filtered by query parameters:
// user_id, action_type, table_name, from, to (RFC 3339), limit, offset.
func (h *Handler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.Service.GetAll(filter)
	if err != nil {
		h.Logger.Error("GetAuditLogs: query failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get audit logs")
		return
	}

	if entries == nil {
		entries = []*Entry{}
	}

	h.WriteJSON(w, http.StatusOK, EntriesResponse{
		Entries: entries,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	})
}

func (h *Handler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid audit log id")
		return
	}

	entry, err := h.Service.GetByID(id)
	if err != nil {
		h.Logger.Error("GetAuditLog: lookup failed", "error", err, "id", id)
		h.WriteError(w, http.StatusInternalServerError, "failed to get audit log")
		return
	}
	if entry == nil {
		h.WriteError(w, http.StatusNotFound, "audit log not found")
		return
	}

	h.WriteJSON(w, http.StatusOK, entry)
}

func parseFilter(r *http.Request) (QueryFilter, error) {
	var filter QueryFilter
	q := r.URL.Query()

	if v := q.Get("user_id"); v != "" {
		userID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, strconv.ErrSyntax
		}
		filter.UserID = userID
	}

	filter.ActionType = q.Get("action_type")
	filter.TableName = q.Get("table_name")

	if v := q.Get("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, err
		}
		filter.From = from
	}
	if v := q.Get("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, err
		}
		filter.To = to
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return filter, err
		}
		filter.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			return filter, err
		}
		filter.Offset = offset
	}

	return filter, nil
}
