package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/khoahotran/devconnector/internal/domain/profile"
)

// ProfileCache holds public profile views. Get returns (nil, nil) on a miss.
type ProfileCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*profile.View, error)
	Set(ctx context.Context, view *profile.View) error
	Delete(ctx context.Context, userID uuid.UUID) error
}
