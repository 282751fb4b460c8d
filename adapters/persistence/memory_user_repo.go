package persistence

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/domain/user"
)

type memoryUserRepo struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]user.User
	byEmail map[string]uuid.UUID
}

// NewMemoryUserRepo keeps users in process memory, for local runs and tests.
func NewMemoryUserRepo() user.Repository {
	return &memoryUserRepo{
		byID:    make(map[uuid.UUID]user.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *memoryUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r *memoryUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[uuid.UUID]*user.User, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out[id] = &u
		}
	}
	return out, nil
}

func (r *memoryUserRepo) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[u.Email]; taken {
		return user.ErrEmailTaken
	}
	r.byID[u.ID] = *u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *memoryUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return user.ErrUserNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.byID, id)
	return nil
}
