package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joao-fontenele/salesdesk/internal/session"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	user := session.UserFrom(r.Context())
	list, err := s.notifications.ListForUser(r.Context(), user.ID)
	if err != nil {
		s.fail(w, r, "list notifications", err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	user := session.UserFrom(r.Context())
	n, err := s.notifications.UnreadCount(r.Context(), user.ID)
	if err != nil {
		s.fail(w, r, "count unread", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	user := session.UserFrom(r.Context())
	n, err := s.notifications.MarkRead(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "mark read", err)
		return
	}
	s.writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	user := session.UserFrom(r.Context())
	n, err := s.notifications.MarkAllRead(r.Context(), user.ID)
	if err != nil {
		s.fail(w, r, "mark all read", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"updated": n})
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	user := session.UserFrom(r.Context())
	if err := s.notifications.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, "delete notification", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
