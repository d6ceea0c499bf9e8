package middleware

import (
	"net/http"
	"strings"

	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/rumahkita/property-management/internal/audit"
	"github.com/rumahkita/property-management/internal/auth"
)

var methodActions = map[string]string{
	http.MethodPost:   audit.ActionCreate,
	http.MethodPut:    audit.ActionUpdate,
	http.MethodPatch:  audit.ActionUpdate,
	http.MethodDelete: audit.ActionDelete,
}

// AuditTrail records one audit entry per successful mutating request,
// deriving the action from the HTTP method and the table name from the
// resource path. Reads are never audited. Route groups whose services
// write richer audit entries themselves must not be wrapped with this.
func AuditTrail(auditor audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actionType, mutating := methodActions[r.Method]
			if !mutating {
				next.ServeHTTP(w, r)
				return
			}

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if ww.Status() < 200 || ww.Status() >= 300 {
				return
			}
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				return
			}
			auditor.LogAction(user.ID, actionType, tableNameFromPath(r.URL.Path), nil, nil)
		})
	}
}

// tableNameFromPath maps /api/v1/scheduled-notifications/{id} to
// scheduled_notifications.
func tableNameFromPath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if seg == "v1" && i+1 < len(segments) {
			return strings.ReplaceAll(segments[i+1], "-", "_")
		}
	}
	if len(segments) > 0 {
		return strings.ReplaceAll(segments[0], "-", "_")
	}
	return "unknown"
}
