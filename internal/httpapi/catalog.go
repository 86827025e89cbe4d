package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/validators"
)

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.store.ProductGroups().List(r.Context())
	if err != nil {
		s.fail(w, r, "list groups", err)
		return
	}
	s.writeJSON(w, http.StatusOK, groups)
}

// handleListProducts lists the catalog, optionally narrowed to ?group_id=.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.Products().List(r.Context())
	if err != nil {
		s.fail(w, r, "list products", err)
		return
	}
	if groupID := r.URL.Query().Get("group_id"); groupID != "" {
		filtered := make([]domain.Product, 0, len(products))
		for _, p := range products {
			if p.GroupID == groupID {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	s.writeJSON(w, http.StatusOK, products)
}

func validateGroup(p domain.GroupPatch) error {
	if p.Name != nil {
		if err := validators.ValidateString("name", *p.Name, 1, 255); err != nil {
			return err
		}
	}
	if p.Image != nil {
		return validators.ValidateImage("image", *p.Image)
	}
	return nil
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req domain.GroupPatch
	if !s.decode(w, r, &req) {
		return
	}
	if req.Name == nil {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := validateGroup(req); err != nil {
		s.badRequest(w, err)
		return
	}

	var group domain.ProductGroup
	req.Apply(&group)
	if err := s.store.ProductGroups().Create(r.Context(), &group); err != nil {
		s.fail(w, r, "create group", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, group)
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req domain.GroupPatch
	if !s.decode(w, r, &req) {
		return
	}
	if err := validateGroup(req); err != nil {
		s.badRequest(w, err)
		return
	}
	group, err := s.store.ProductGroups().Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		s.fail(w, r, "update group", err)
		return
	}
	if group == nil {
		s.notFound(w, "group")
		return
	}
	s.writeJSON(w, http.StatusOK, group)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	s.deleted(w, r, "group", s.store.ProductGroups().Delete)
}

func (s *Server) validateProduct(r *http.Request, p domain.ProductPatch) (string, error) {
	if p.Name != nil {
		if err := validators.ValidateString("name", *p.Name, 1, 255); err != nil {
			return err.Error(), nil
		}
	}
	if p.Code != nil {
		if err := validators.ValidateString("code", *p.Code, 0, 50); err != nil {
			return err.Error(), nil
		}
	}
	if p.Price != nil {
		if err := validators.ValidatePrice(*p.Price); err != nil {
			return err.Error(), nil
		}
	}
	if p.GroupID != nil {
		group, err := s.store.ProductGroups().Get(r.Context(), *p.GroupID)
		if err != nil {
			return "", err
		}
		if group == nil {
			return "group does not exist", nil
		}
	}
	return "", nil
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductPatch
	if !s.decode(w, r, &req) {
		return
	}
	if req.Name == nil || req.GroupID == nil {
		s.writeError(w, http.StatusBadRequest, "name and group_id are required")
		return
	}
	problem, err := s.validateProduct(r, req)
	if err != nil {
		s.fail(w, r, "validate product", err)
		return
	}
	if problem != "" {
		s.writeError(w, http.StatusBadRequest, problem)
		return
	}

	product := domain.Product{Price: decimal.Zero}
	req.Apply(&product)
	if err := s.store.Products().Create(r.Context(), &product); err != nil {
		s.fail(w, r, "create product", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, product)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductPatch
	if !s.decode(w, r, &req) {
		return
	}
	problem, err := s.validateProduct(r, req)
	if err != nil {
		s.fail(w, r, "validate product", err)
		return
	}
	if problem != "" {
		s.writeError(w, http.StatusBadRequest, problem)
		return
	}
	product, err := s.store.Products().Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		s.fail(w, r, "update product", err)
		return
	}
	if product == nil {
		s.notFound(w, "product")
		return
	}
	s.writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	s.deleted(w, r, "product", s.store.Products().Delete)
}
