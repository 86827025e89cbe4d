package httpapi

import (
	"net/http"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/session"
	"github.com/joao-fontenele/salesdesk/internal/validators"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}
	login, err := s.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(w, r, "login", err)
		return
	}
	s.writeJSON(w, http.StatusOK, login)
}

type recoverRequest struct {
	Username    string `json:"username"`
	Answer      string `json:"answer"`
	NewPassword string `json:"new_password"`
}

func (s *Server) handleRecover(w http.ResponseWriter, r *http.Request) {
	var req recoverRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.sessions.Recover(r.Context(), req.Username, req.Answer, req.NewPassword); err != nil {
		s.fail(w, r, "recover password", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSecurityQuestion(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		s.writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	question, err := s.sessions.SecurityQuestion(r.Context(), username)
	if err != nil {
		s.fail(w, r, "security question", err)
		return
	}
	// Unknown users and users without a question look the same.
	if question == "" {
		s.notFound(w, "security question")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"question": question})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, session.UserFrom(r.Context()))
}

type profileRequest struct {
	FullName         *string `json:"full_name"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email"`
	SecurityQuestion *string `json:"security_question"`
	SecurityAnswer   *string `json:"security_answer"`
}

// handleUpdateProfile lets any user edit their own contact details and
// recovery question. The session record is rewritten so /auth/me reflects it.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !s.decode(w, r, &req) {
		return
	}
	user := session.UserFrom(r.Context())

	patch := domain.UserPatch{
		FullName:         req.FullName,
		Phone:            req.Phone,
		Email:            req.Email,
		SecurityQuestion: req.SecurityQuestion,
	}
	if err := validateContact(req.FullName, req.Phone, req.Email); err != nil {
		s.badRequest(w, err)
		return
	}
	if req.SecurityAnswer != nil {
		if req.SecurityQuestion == nil && user.SecurityQuestion == "" {
			s.writeError(w, http.StatusBadRequest, "security question is required")
			return
		}
		hash, err := session.HashAnswer(*req.SecurityAnswer)
		if err != nil {
			s.fail(w, r, "hash answer", err)
			return
		}
		patch.SecurityAnswerHash = &hash
	}

	updated, err := s.store.Users().Update(r.Context(), user.ID, patch)
	if err != nil {
		s.fail(w, r, "update profile", err)
		return
	}
	if updated == nil {
		s.notFound(w, "user")
		return
	}
	if err := s.sessions.Refresh(r.Context(), session.SessionIDFrom(r.Context()), updated); err != nil {
		s.fail(w, r, "refresh session", err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(r.Context(), session.SessionIDFrom(r.Context())); err != nil {
		s.fail(w, r, "logout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateContact(fullName, phone, email *string) error {
	if fullName != nil {
		if err := validators.ValidateString("full_name", *fullName, 1, 255); err != nil {
			return err
		}
	}
	if phone != nil {
		if err := validators.ValidatePhone(*phone); err != nil {
			return err
		}
	}
	if email != nil {
		if err := validators.ValidateEmail(*email); err != nil {
			return err
		}
	}
	return nil
}
