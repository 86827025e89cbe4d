package httpapi

import (
	"errors"
	"net/http"

	"github.com/joao-fontenele/salesdesk/internal/session"
	"github.com/joao-fontenele/salesdesk/internal/stats"
)

var errInvalidPermission = errors.New("admin_permission must be full or orders_only")

func (s *Server) handleRepStats(w http.ResponseWriter, r *http.Request) {
	report, err := stats.RepStats(r.Context(), s.store)
	if err != nil {
		s.fail(w, r, "rep stats", err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

type wipeRequest struct {
	Code string `json:"code"`
}

// handleWipe erases everything and re-seeds. The caller's own session goes
// with the rest, so the client has to sign in again.
func (s *Server) handleWipe(w http.ResponseWriter, r *http.Request) {
	var req wipeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.wiper.Wipe(r.Context(), req.Code, session.UserFrom(r.Context()).ID); err != nil {
		s.fail(w, r, "wipe", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
