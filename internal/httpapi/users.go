package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/session"
	"github.com/joao-fontenele/salesdesk/internal/validators"
)

type userRequest struct {
	Username         *string                 `json:"username"`
	Password         *string                 `json:"password"`
	FullName         *string                 `json:"full_name"`
	Role             domain.Role             `json:"role"`
	Phone            *string                 `json:"phone"`
	Email            *string                 `json:"email"`
	SecurityQuestion *string                 `json:"security_question"`
	SecurityAnswer   *string                 `json:"security_answer"`
	IsActive         *bool                   `json:"is_active"`
	AdminPermission  *domain.AdminPermission `json:"admin_permission"`
}

// patch validates the request and hashes any secrets it carries.
func (req userRequest) patch() (domain.UserPatch, error) {
	p := domain.UserPatch{
		FullName:         req.FullName,
		Phone:            req.Phone,
		Email:            req.Email,
		SecurityQuestion: req.SecurityQuestion,
		IsActive:         req.IsActive,
		AdminPermission:  req.AdminPermission,
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if err := validators.ValidateUsername(username); err != nil {
			return p, &session.InputError{Err: err}
		}
		p.Username = &username
	}
	if err := validateContact(req.FullName, req.Phone, req.Email); err != nil {
		return p, &session.InputError{Err: err}
	}
	if req.AdminPermission != nil {
		switch *req.AdminPermission {
		case domain.PermissionFull, domain.PermissionOrdersOnly:
		default:
			return p, &session.InputError{Err: errInvalidPermission}
		}
	}
	if req.Password != nil {
		if err := validators.ValidatePassword(*req.Password); err != nil {
			return p, &session.InputError{Err: err}
		}
		hash, err := session.HashPassword(*req.Password)
		if err != nil {
			return p, err
		}
		p.PasswordHash = &hash
	}
	if req.SecurityAnswer != nil {
		hash, err := session.HashAnswer(*req.SecurityAnswer)
		if err != nil {
			return p, err
		}
		p.SecurityAnswerHash = &hash
	}
	return p, nil
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	role := domain.Role(r.URL.Query().Get("role"))
	var (
		users []domain.User
		err   error
	)
	switch {
	case role == "":
		users, err = s.store.Users().List(r.Context())
	case role.Valid():
		users, err = s.store.Users().ListByRole(r.Context(), role)
	default:
		s.writeError(w, http.StatusBadRequest, "invalid role")
		return
	}
	if err != nil {
		s.fail(w, r, "list users", err)
		return
	}
	s.writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Username == nil || req.Password == nil {
		s.writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	if !req.Role.Valid() {
		s.writeError(w, http.StatusBadRequest, "invalid role")
		return
	}
	patch, err := req.patch()
	if err != nil {
		s.fail(w, r, "create user", err)
		return
	}

	user := domain.User{Role: req.Role, IsActive: true}
	patch.Apply(&user)
	switch {
	case user.Role == domain.RoleSalesRep:
		user.AdminPermission = ""
	case user.AdminPermission == "":
		user.AdminPermission = domain.PermissionFull
	}

	if err := s.store.Users().Create(r.Context(), &user); err != nil {
		s.fail(w, r, "create user", err)
		return
	}
	s.logger.Info("user created", "user_id", user.ID, "role", user.Role)
	s.writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Role != "" {
		s.writeError(w, http.StatusBadRequest, "role cannot be changed")
		return
	}
	id := chi.URLParam(r, "id")
	if id == session.UserFrom(r.Context()).ID && req.IsActive != nil && !*req.IsActive {
		s.writeError(w, http.StatusBadRequest, "cannot deactivate your own account")
		return
	}
	patch, err := req.patch()
	if err != nil {
		s.fail(w, r, "update user", err)
		return
	}

	user, err := s.store.Users().Update(r.Context(), id, patch)
	if err != nil {
		s.fail(w, r, "update user", err)
		return
	}
	if user == nil {
		s.notFound(w, "user")
		return
	}
	if !user.IsActive {
		if err := s.sessions.EndUserSessions(r.Context(), user.ID); err != nil {
			s.fail(w, r, "update user", err)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "id") == session.UserFrom(r.Context()).ID {
		s.writeError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}
	s.deleted(w, r, "user", func(ctx context.Context, id string) (bool, error) {
		ok, err := s.store.Users().Delete(ctx, id)
		if err != nil || !ok {
			return ok, err
		}
		return true, s.sessions.EndUserSessions(ctx, id)
	})
}
