package services

import (
	"context"
	"testing"
	"time"

	"membergate/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisMemberListCacheReportsErrors(t *testing.T) {
	cache := NewRedisMemberListCache(unreachableRedis(t))
	ctx := context.Background()

	_, found, err := cache.Get(ctx)
	assert.Error(t, err)
	assert.False(t, found)
	assert.Error(t, cache.Set(ctx, []models.MemberSummary{{ID: 1, Code: "FF01"}}))
	assert.Error(t, cache.Invalidate(ctx))
}

func TestDirectoryFallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addMember(t, "FF01", "1991", models.RoleAdmin, true)
	admin := env.login(t, "FF01", "1991")
	dir := newDirectory(env, NewRedisMemberListCache(unreachableRedis(t)))

	members, err := dir.ListMembers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	_, err = dir.CreateMember(ctx, admin, CreateMemberInput{Code: "FF10", Secret: "4321"})
	require.NoError(t, err)
	members, err = dir.ListMembers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}
