package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

type userRepo struct{ repos }

const userColumns = `id, username, password_hash, full_name, role, phone, email,
	security_question, security_answer_hash, is_active, admin_permission, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Role, &u.Phone, &u.Email,
		&u.SecurityQuestion, &u.SecurityAnswerHash, &u.IsActive, &u.AdminPermission, &u.CreatedAt)
	return u, err
}

func (r userRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(rows *sql.Rows) (domain.User, error) { return scanUser(rows) })
}

func (r userRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at DESC
	`, role)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(rows *sql.Rows) (domain.User, error) { return scanUser(rows) })
}

func (r userRepo) Get(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r userRepo) one(ctx context.Context, query string, arg any) (*domain.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r userRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.New().String()
	user.CreatedAt = r.clock.now()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, user.ID, user.Username, user.PasswordHash, user.FullName, user.Role, user.Phone, user.Email,
		user.SecurityQuestion, user.SecurityAnswerHash, user.IsActive, user.AdminPermission, user.CreatedAt)
	return mapErr(err)
}

func (r userRepo) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	u, err := r.Get(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	patch.Apply(u)

	_, err = r.q.ExecContext(ctx, `
		UPDATE users SET username = $2, password_hash = $3, full_name = $4, phone = $5, email = $6,
			security_question = $7, security_answer_hash = $8, is_active = $9, admin_permission = $10
		WHERE id = $1
	`, u.ID, u.Username, u.PasswordHash, u.FullName, u.Phone, u.Email,
		u.SecurityQuestion, u.SecurityAnswerHash, u.IsActive, u.AdminPermission)
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (r userRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.q, "users", id)
}
