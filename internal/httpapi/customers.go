package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/session"
	"github.com/joao-fontenele/salesdesk/internal/validators"
)

func validateCustomer(p domain.CustomerPatch) error {
	if p.Name != nil {
		if err := validators.ValidateString("name", *p.Name, 1, 255); err != nil {
			return err
		}
	}
	if p.Phone != nil {
		return validators.ValidatePhone(*p.Phone)
	}
	return nil
}

func (s *Server) handleListMyCustomers(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.Customers().ListBySalesRep(r.Context(), session.UserFrom(r.Context()).ID)
	if err != nil {
		s.fail(w, r, "list customers", err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleListAllCustomers(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.Customers().List(r.Context())
	if err != nil {
		s.fail(w, r, "list customers", err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req domain.CustomerPatch
	if !s.decode(w, r, &req) {
		return
	}
	if req.Name == nil {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := validateCustomer(req); err != nil {
		s.badRequest(w, err)
		return
	}

	customer := domain.Customer{SalesRepID: session.UserFrom(r.Context()).ID}
	req.Apply(&customer)
	if err := s.store.Customers().Create(r.Context(), &customer); err != nil {
		s.fail(w, r, "create customer", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, customer)
}

// ownCustomer answers 404 for customers that belong to another rep.
func (s *Server) ownCustomer(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	c, err := s.store.Customers().Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, "get customer", err)
		return "", false
	}
	if c == nil || c.SalesRepID != session.UserFrom(r.Context()).ID {
		s.notFound(w, "customer")
		return "", false
	}
	return id, true
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req domain.CustomerPatch
	if !s.decode(w, r, &req) {
		return
	}
	if err := validateCustomer(req); err != nil {
		s.badRequest(w, err)
		return
	}
	id, ok := s.ownCustomer(w, r)
	if !ok {
		return
	}
	customer, err := s.store.Customers().Update(r.Context(), id, req)
	if err != nil {
		s.fail(w, r, "update customer", err)
		return
	}
	if customer == nil {
		s.notFound(w, "customer")
		return
	}
	s.writeJSON(w, http.StatusOK, customer)
}

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.ownCustomer(w, r); !ok {
		return
	}
	s.deleted(w, r, "customer", s.store.Customers().Delete)
}
