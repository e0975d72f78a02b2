package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/audit"
)

// handleListAuditLogs serves one page of the audit trail, newest first.
//
// Query parameters:
//   - action: event kind (enrollment, auth_attempt, door_opened, ...)
//   - node: node role (front, back)
//   - since, until: RFC 3339 bounds, since inclusive and until exclusive
//   - limit, offset: paging; limit defaults to 50 and is capped at 200
func (s *Server) handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	if s.auditRepo == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "audit logging not configured")
		return
	}

	filter, err := parseAuditFilter(r.URL.Query())
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	page, err := s.auditRepo.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing audit entries failed", "error", err, "request_id", requestID(r))
		writeInternalError(w, "failed to list audit entries")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func parseAuditFilter(q url.Values) (audit.Filter, error) {
	f := audit.Filter{Action: q.Get("action"), Node: q.Get("node")}

	for name, dst := range map[string]*int{"limit": &f.Limit, "offset": &f.Offset} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return f, errors.New(name + " must be an integer")
			}
			*dst = n
		}
	}
	for name, dst := range map[string]*time.Time{"since": &f.Since, "until": &f.Until} {
		if v := q.Get(name); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return f, errors.New(name + " must be an RFC 3339 timestamp")
			}
			*dst = t
		}
	}
	return f, nil
}
