package redis_test

import (
	"context"
	"testing"
	"time"

	redisStore "reseller-server/internal/adapter/storage/redis"
	"reseller-server/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*redisStore.UserCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redisStore.NewUserCache(client), mr
}

func TestUserCache_SetAndGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	user := &domain.User{
		ID:           uuid.New(),
		Name:         "Cache Seller",
		MobileNo:     "01712345678",
		PasswordHash: "$argon2id$hash",
		Role:         domain.RoleSeller,
		Balance:      700,
	}

	require.NoError(t, cache.Set(ctx, user, time.Minute))

	got, err := cache.Get(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.MobileNo, got.MobileNo)
	assert.Equal(t, user.Role, got.Role)
	assert.Equal(t, user.Balance, got.Balance)
	assert.Equal(t, user.PasswordHash, got.PasswordHash, "hash must survive the roundtrip")
}

func TestUserCache_Get_Miss(t *testing.T) {
	cache, _ := newTestCache(t)

	got, err := cache.Get(context.Background(), uuid.New())
	assert.NoError(t, err, "a miss is not an error")
	assert.Nil(t, got)
}

func TestUserCache_Invalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	user := &domain.User{ID: uuid.New(), MobileNo: "01712345678", Role: domain.RoleSeller}
	require.NoError(t, cache.Set(ctx, user, time.Minute))
	require.NoError(t, cache.Invalidate(ctx, user.ID))

	got, err := cache.Get(ctx, user.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserCache_TTLExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	user := &domain.User{ID: uuid.New(), MobileNo: "01712345678", Role: domain.RoleSeller}
	require.NoError(t, cache.Set(ctx, user, 30*time.Second))

	mr.FastForward(31 * time.Second)

	got, err := cache.Get(ctx, user.ID)
	assert.NoError(t, err)
	assert.Nil(t, got, "entry should expire with its TTL")
}
