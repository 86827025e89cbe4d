package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/lifecycle"
	"github.com/joao-fontenele/salesdesk/internal/maintenance"
	"github.com/joao-fontenele/salesdesk/internal/notifications"
	"github.com/joao-fontenele/salesdesk/internal/session"
	"github.com/joao-fontenele/salesdesk/internal/store"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// fail maps a service error to a response. Only unexpected errors are logged;
// the client never sees their text.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		verr  *lifecycle.ValidationError
		input *session.InputError
	)
	switch {
	case errors.As(err, &verr):
		s.writeError(w, http.StatusBadRequest, verr.Message)
	case errors.As(err, &input):
		s.writeError(w, http.StatusBadRequest, input.Error())
	case errors.Is(err, maintenance.ErrBadConfirmation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrInvalidCredentials):
		s.writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, session.ErrInactive), errors.Is(err, lifecycle.ErrForbidden):
		s.writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, lifecycle.ErrOrderNotFound), errors.Is(err, notifications.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, lifecycle.ErrInvalidTransition), errors.Is(err, lifecycle.ErrConflict):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrConflict):
		s.writeError(w, http.StatusConflict, "already exists")
	default:
		s.logger.Error("request failed", "op", op, "error", err, "path", r.URL.Path)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.writeError(w, http.StatusBadRequest, err.Error())
}

func (s *Server) notFound(w http.ResponseWriter, what string) {
	s.writeError(w, http.StatusNotFound, what+" not found")
}

func statusFilter(r *http.Request) (domain.OrderStatus, bool) {
	status := domain.OrderStatus(r.URL.Query().Get("status"))
	return status, status == "" || status.Valid()
}

// deleted runs a repository delete for the {id} in the path.
func (s *Server) deleted(w http.ResponseWriter, r *http.Request, what string, del func(context.Context, string) (bool, error)) {
	ok, err := del(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "delete "+what, err)
		return
	}
	if !ok {
		s.notFound(w, what)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
