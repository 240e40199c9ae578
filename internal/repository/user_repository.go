package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/store"
)

// UserRepo mirrors the users collection and the single current-user
// pointer.
type UserRepo struct{ s *store.Store }

func NewUserRepo(s *store.Store) *UserRepo { return &UserRepo{s: s} }

// ListAll returns every registered user.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	return store.Load[model.User](ctx, r.s, store.KeyUsers)
}

// Exists reports whether the users collection has been initialised.
func (r *UserRepo) Exists(ctx context.Context) (bool, error) {
	return r.s.Exists(ctx, store.KeyUsers)
}

// Replace swaps the whole users collection.
func (r *UserRepo) Replace(ctx context.Context, users []model.User) error {
	return r.s.Put(ctx, store.KeyUsers, users)
}

// GetByEmail fetches a user by exact email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	users, err := r.ListAll(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

// Current returns the persisted session user.  ok is false when nobody is
// signed in or the pointer is unreadable.
func (r *UserRepo) Current(ctx context.Context) (u model.User, ok bool, err error) {
	raw, ok, err := r.s.GetScalar(ctx, store.KeyCurrentUser)
	if err != nil || !ok {
		return model.User{}, false, err
	}
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		r.s.Logger().Warn("repository: corrupt session pointer ignored", "err", err)
		return model.User{}, false, nil
	}
	return u, true, nil
}

// SetCurrent replaces the session pointer.
func (r *UserRepo) SetCurrent(ctx context.Context, u model.User) error {
	bs, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.s.SetScalar(ctx, store.KeyCurrentUser, string(bs))
}

// ClearCurrent removes the session pointer.
func (r *UserRepo) ClearCurrent(ctx context.Context) error {
	return r.s.DeleteScalar(ctx, store.KeyCurrentUser)
}
