package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/domain/profile"
)

type memoryProfileRepo struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*profile.Profile
}

// NewMemoryProfileRepo keeps profiles in process memory. Every read and write
// copies, so callers never alias stored slices.
func NewMemoryProfileRepo() profile.Repository {
	return &memoryProfileRepo{profiles: make(map[uuid.UUID]*profile.Profile)}
}

func (r *memoryProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return p.Clone(), nil
}

func (r *memoryProfileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*profile.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[p.UserID]; exists {
		return profile.ErrProfileExists
	}
	r.profiles[p.UserID] = p.Clone()
	return nil
}

func (r *memoryProfileRepo) UpdateFields(ctx context.Context, userID uuid.UUID, f profile.Fields, now time.Time) (*profile.Profile, error) {
	return r.mutate(userID, func(p *profile.Profile) {
		p.Apply(f, now)
	})
}

func (r *memoryProfileRepo) ReplaceExperience(ctx context.Context, userID uuid.UUID, entries profile.Entries[profile.Experience], now time.Time) (*profile.Profile, error) {
	return r.mutate(userID, func(p *profile.Profile) {
		p.Experience = append(profile.Entries[profile.Experience]{}, entries...)
		p.UpdatedAt = now
	})
}

func (r *memoryProfileRepo) ReplaceEducation(ctx context.Context, userID uuid.UUID, entries profile.Entries[profile.Education], now time.Time) (*profile.Profile, error) {
	return r.mutate(userID, func(p *profile.Profile) {
		p.Education = append(profile.Entries[profile.Education]{}, entries...)
		p.UpdatedAt = now
	})
}

func (r *memoryProfileRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[userID]; !ok {
		return profile.ErrProfileNotFound
	}
	delete(r.profiles, userID)
	return nil
}

func (r *memoryProfileRepo) mutate(userID uuid.UUID, fn func(p *profile.Profile)) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	fn(p)
	return p.Clone(), nil
}
