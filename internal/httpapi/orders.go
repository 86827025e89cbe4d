package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/lifecycle"
	"github.com/joao-fontenele/salesdesk/internal/session"
)

type createOrderRequest struct {
	lifecycle.NewOrder
	// Draft saves the order without notifying anyone.
	Draft bool `json:"draft"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !s.decode(w, r, &req) {
		return
	}
	rep := session.UserFrom(r.Context())

	create := s.engine.Submit
	if req.Draft {
		create = s.engine.SaveDraft
	}
	order, err := create(r.Context(), rep, req.NewOrder)
	if err != nil {
		s.fail(w, r, "create order", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req lifecycle.NewOrder
	if !s.decode(w, r, &req) {
		return
	}
	order, err := s.engine.UpdateDraft(r.Context(), session.UserFrom(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		s.fail(w, r, "update draft", err)
		return
	}
	s.writeJSON(w, http.StatusOK, order)
}

type command func(ctx context.Context, actor *domain.User, orderID string) (*domain.Order, error)

func (s *Server) runCommand(w http.ResponseWriter, r *http.Request, op string, cmd command) {
	order, err := cmd(r.Context(), session.UserFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleSendDraft(w http.ResponseWriter, r *http.Request) {
	s.runCommand(w, r, "send draft", s.engine.SendDraft)
}

func (s *Server) handleMarkPrinted(w http.ResponseWriter, r *http.Request) {
	s.runCommand(w, r, "mark printed", s.engine.MarkPrinted)
}

func (s *Server) handleTrash(w http.ResponseWriter, r *http.Request) {
	s.runCommand(w, r, "move to trash", s.engine.MoveToTrash)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	s.runCommand(w, r, "restore order", s.engine.Restore)
}

func (s *Server) handlePermanentDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.engine.PermanentDelete(r.Context(), session.UserFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "delete order", err)
		return
	}
	if !deleted {
		s.notFound(w, "order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.views.Get(r.Context(), session.UserFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "get order", err)
		return
	}
	if order == nil {
		s.notFound(w, "order")
		return
	}
	s.writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleListMyOrders(w http.ResponseWriter, r *http.Request) {
	status, ok := statusFilter(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	list, err := s.views.ForRep(r.Context(), session.UserFrom(r.Context()).ID, status)
	if err != nil {
		s.fail(w, r, "list orders", err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleListAllOrders(w http.ResponseWriter, r *http.Request) {
	status, ok := statusFilter(r)
	if !ok || status == domain.OrderStatusDraft {
		s.writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	list, err := s.views.ForAdmin(r.Context(), status)
	if err != nil {
		s.fail(w, r, "list orders", err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleOrderSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.views.Summary(r.Context())
	if err != nil {
		s.fail(w, r, "order summary", err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}
