package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/store"
)

type userRepo struct{ repos }

func userCreated(u domain.User) time.Time { return u.CreatedAt }

func (r userRepo) List(ctx context.Context) ([]domain.User, error) {
	defer r.read()()
	return newestFirst(filter(r.s.t.users, nil), userCreated), nil
}

func (r userRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	defer r.read()()
	users := filter(r.s.t.users, func(u domain.User) bool { return u.Role == role })
	return newestFirst(users, userCreated), nil
}

func (r userRepo) Get(ctx context.Context, id string) (*domain.User, error) {
	defer r.read()()
	u, ok := r.s.t.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	defer r.read()()
	return r.byUsername(username), nil
}

func (r userRepo) byUsername(username string) *domain.User {
	for _, u := range r.s.t.users {
		if u.Username == username {
			return &u
		}
	}
	return nil
}

func (r userRepo) Create(ctx context.Context, user *domain.User) error {
	defer r.write()()
	if r.byUsername(user.Username) != nil {
		return store.ErrConflict
	}
	user.ID = uuid.New().String()
	user.CreatedAt = r.s.stamp()
	r.s.t.users[user.ID] = *user
	return nil
}

func (r userRepo) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	defer r.write()()
	u, ok := r.s.t.users[id]
	if !ok {
		return nil, nil
	}
	if patch.Username != nil && *patch.Username != u.Username {
		if r.byUsername(*patch.Username) != nil {
			return nil, store.ErrConflict
		}
	}
	patch.Apply(&u)
	r.s.t.users[id] = u
	return &u, nil
}

func (r userRepo) Delete(ctx context.Context, id string) (bool, error) {
	defer r.write()()
	if _, ok := r.s.t.users[id]; !ok {
		return false, nil
	}
	delete(r.s.t.users, id)
	for nid, n := range r.s.t.notifications {
		if n.UserID == id {
			delete(r.s.t.notifications, nid)
		}
	}
	return true, nil
}
