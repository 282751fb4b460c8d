package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
)

const keyPrefix = "profile:view:"

type redisProfileCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisProfileCache(rdb *redis.Client, ttl time.Duration) service.ProfileCache {
	return &redisProfileCache{rdb: rdb, ttl: ttl}
}

// cachedView is the stored form of a profile.View. The view's JSON shape puts
// the owner summary under "user", which would hide the profile's own key.
type cachedView struct {
	Profile *profile.Profile `json:"profile"`
	User    *user.Summary    `json:"user"`
}

func key(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}

func encodeView(v *profile.View) ([]byte, error) {
	return json.Marshal(cachedView{Profile: v.Profile, User: v.User})
}

func decodeView(data []byte) (*profile.View, error) {
	var c cachedView
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.Profile == nil {
		return nil, errors.New("cached view has no profile")
	}
	return &profile.View{Profile: c.Profile, User: c.User}, nil
}

func (c *redisProfileCache) Get(ctx context.Context, userID uuid.UUID) (*profile.View, error) {
	data, err := c.rdb.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get profile view: %w", err)
	}

	v, err := decodeView(data)
	if err != nil {
		// drop entries written by an incompatible version
		_ = c.rdb.Del(ctx, key(userID)).Err()
		return nil, fmt.Errorf("decode cached profile view: %w", err)
	}
	return v, nil
}

func (c *redisProfileCache) Set(ctx context.Context, v *profile.View) error {
	data, err := encodeView(v)
	if err != nil {
		return fmt.Errorf("encode profile view: %w", err)
	}
	if err := c.rdb.Set(ctx, key(v.UserID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set profile view: %w", err)
	}
	return nil
}

func (c *redisProfileCache) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := c.rdb.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete profile view: %w", err)
	}
	return nil
}
