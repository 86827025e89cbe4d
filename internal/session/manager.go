// Package session authenticates users and keeps their current-user record
// between requests. A session is restored from the stored record without
// re-reading the account, and a record that cannot be decoded ends the session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/store"
	"github.com/joao-fontenele/salesdesk/internal/validators"
)

var (
	ErrNoSession          = errors.New("no session")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInactive           = errors.New("account is disabled")
)

type Manager struct {
	users    store.UserRepository
	sessions Store
	tokens   *Tokens
	ttl      time.Duration
	logger   *slog.Logger
}

func NewManager(users store.UserRepository, sessions Store, tokens *Tokens, ttl time.Duration, logger *slog.Logger) *Manager {
	return &Manager{users: users, sessions: sessions, tokens: tokens, ttl: ttl, logger: logger}
}

// Login is the result of a successful sign-in.
type Login struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

func (m *Manager) Login(ctx context.Context, username, password string) (*Login, error) {
	user, err := m.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactive
	}

	if user.IsAdmin() && user.AdminPermission == "" {
		full := domain.PermissionFull
		user.AdminPermission = full
		if _, err := m.users.Update(ctx, user.ID, domain.UserPatch{AdminPermission: &full}); err != nil {
			m.logger.Warn("failed to persist admin permission upgrade", "error", err, "user_id", user.ID)
		}
	}

	sid := uuid.New().String()
	if err := m.save(ctx, sid, user); err != nil {
		return nil, err
	}

	token, expires, err := m.tokens.Issue(sid, user.ID)
	if err != nil {
		_ = m.sessions.Delete(ctx, sid)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	m.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return &Login{Token: token, ExpiresAt: expires, User: user}, nil
}

func (m *Manager) save(ctx context.Context, sid string, user *domain.User) error {
	record, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := m.sessions.Save(ctx, user.ID, sid, record, m.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Restore returns the user of the session named by token. A bad token, a
// missing session or an unreadable record is ErrNoSession; only a failing
// session store is reported as a real error.
func (m *Manager) Restore(ctx context.Context, token string) (*domain.User, string, error) {
	claims, err := m.tokens.Parse(token)
	if err != nil {
		return nil, "", ErrNoSession
	}

	record, err := m.sessions.Load(ctx, claims.SessionID)
	if err != nil {
		return nil, "", fmt.Errorf("load session: %w", err)
	}
	if record == nil {
		return nil, "", ErrNoSession
	}

	var user domain.User
	if err := json.Unmarshal(record, &user); err != nil || user.ID == "" {
		m.logger.Warn("discarding unreadable session", "session_id", claims.SessionID)
		_ = m.sessions.Delete(ctx, claims.SessionID)
		return nil, "", ErrNoSession
	}
	return &user, claims.SessionID, nil
}

// Refresh replaces the stored record of a live session, after the user edited
// their own account.
func (m *Manager) Refresh(ctx context.Context, sessionID string, user *domain.User) error {
	return m.save(ctx, sessionID, user)
}

func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	return m.sessions.Delete(ctx, sessionID)
}

// EndUserSessions signs userID out everywhere, after the account was deleted or
// disabled.
func (m *Manager) EndUserSessions(ctx context.Context, userID string) error {
	if err := m.sessions.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("end user sessions: %w", err)
	}
	return nil
}

// Recover sets a new password for a user who answers their security question.
func (m *Manager) Recover(ctx context.Context, username, answer, newPassword string) error {
	if err := validators.ValidatePassword(newPassword); err != nil {
		return &InputError{Err: err}
	}

	user, err := m.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	if user == nil || user.SecurityAnswerHash == "" || !CheckAnswer(user.SecurityAnswerHash, answer) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if _, err := m.users.Update(ctx, user.ID, domain.UserPatch{PasswordHash: &hash}); err != nil {
		return err
	}

	m.logger.Info("password recovered", "user_id", user.ID)
	return nil
}

// SecurityQuestion returns the question to show before recovery, or "" when the
// user has none.
func (m *Manager) SecurityQuestion(ctx context.Context, username string) (string, error) {
	user, err := m.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil || user == nil {
		return "", err
	}
	return user.SecurityQuestion, nil
}

// InputError wraps a rejected field value.
type InputError struct{ Err error }

func (e *InputError) Error() string { return e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

// Clear ends every session.
func (m *Manager) Clear(ctx context.Context) error {
	return m.sessions.Clear(ctx)
}
