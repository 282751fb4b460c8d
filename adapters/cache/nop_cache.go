package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/profile"
)

// NopCache always misses. Used when Redis is not configured.
type NopCache struct{}

var _ service.ProfileCache = NopCache{}

func (NopCache) Get(ctx context.Context, userID uuid.UUID) (*profile.View, error) {
	return nil, nil
}

func (NopCache) Set(ctx context.Context, view *profile.View) error {
	return nil
}

func (NopCache) Delete(ctx context.Context, userID uuid.UUID) error {
	return nil
}
