package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"poke_league/internal/common"
	"poke_league/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	// Update runs mutate on the stored record while holding the directory
	// write lock. If mutate fails the record is left as it was.
	Update(ctx context.Context, id string, mutate func(u *model.User) error) (*model.User, error)
}

// memUserRepository keeps the whole directory in process memory. Records are
// kept in insertion order; the maps are indexes into that slice.
type memUserRepository struct {
	mu      sync.RWMutex
	users   []*model.User
	byID    map[string]*model.User
	byEmail map[string]*model.User
}

func NewMemUserRepository() UserRepository {
	return &memUserRepository{
		users:   []*model.User{},
		byID:    map[string]*model.User{},
		byEmail: map[string]*model.User{},
	}
}

func (r *memUserRepository) Create(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return fmt.Errorf("user with email %q already exists: %w", user.Email, common.ErrConflict)
	}
	if _, exists := r.byID[user.ID]; exists {
		return fmt.Errorf("user with id %q already exists: %w", user.ID, common.ErrConflict)
	}

	stored := user.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
		user.CreatedAt = stored.CreatedAt
	}
	r.users = append(r.users, stored)
	r.byID[stored.ID] = stored
	r.byEmail[stored.Email] = stored
	return nil
}

func (r *memUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u.Clone(), nil
}

func (r *memUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u.Clone(), nil
}

func (r *memUserRepository) List(ctx context.Context) ([]*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u.Clone())
	}
	return out, nil
}

func (r *memUserRepository) Update(ctx context.Context, id string, mutate func(u *model.User) error) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}

	// Work on a copy so a failed mutation leaves nothing half-applied.
	draft := stored.Clone()
	if err := mutate(draft); err != nil {
		return nil, err
	}
	// id and email are index keys and cannot change through Update.
	draft.ID = stored.ID
	draft.Email = stored.Email
	*stored = *draft
	return stored.Clone(), nil
}
