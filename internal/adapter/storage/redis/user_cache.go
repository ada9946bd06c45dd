package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"reseller-server/internal/core/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// UserCache implements ports.UserCache using Redis. It holds JSON
// snapshots of users so the per-request existence check during token
// verification does not hit the database every time.
type UserCache struct {
	client *goredis.Client
	prefix string
}

// NewUserCache creates a new Redis-backed user cache.
func NewUserCache(client *goredis.Client) *UserCache {
	return &UserCache{
		client: client,
		prefix: "user:",
	}
}

// cachedUser is the stored snapshot. PasswordHash is json:"-" on the
// domain type, so it needs its own field here to survive the roundtrip.
type cachedUser struct {
	domain.User
	PasswordHash string `json:"password_hash"`
}

// Get retrieves a cached user by id. Returns nil, nil on a miss.
func (c *UserCache) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	val, err := c.client.Get(ctx, c.prefix+id.String()).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis user get: %w", err)
	}

	var cached cachedUser
	if err := json.Unmarshal(val, &cached); err != nil {
		return nil, fmt.Errorf("decode cached user: %w", err)
	}
	u := cached.User
	u.PasswordHash = cached.PasswordHash
	return &u, nil
}

// Set stores a user snapshot with TTL.
func (c *UserCache) Set(ctx context.Context, user *domain.User, ttl time.Duration) error {
	payload, err := json.Marshal(cachedUser{User: *user, PasswordHash: user.PasswordHash})
	if err != nil {
		return fmt.Errorf("encode cached user: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+user.ID.String(), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis user set: %w", err)
	}
	return nil
}

// Invalidate drops a user's cached snapshot, e.g. after deletion or a
// balance change.
func (c *UserCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, c.prefix+id.String()).Err(); err != nil {
		return fmt.Errorf("redis user del: %w", err)
	}
	return nil
}
