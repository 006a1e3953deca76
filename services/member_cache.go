package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"membergate/constants"
	"membergate/models"

	"github.com/redis/go-redis/v9"
)

// MemberListCache caches the directory listing between mutations.
type MemberListCache interface {
	Get(ctx context.Context) ([]models.MemberSummary, bool, error)
	Set(ctx context.Context, members []models.MemberSummary) error
	Invalidate(ctx context.Context) error
}

type RedisMemberListCache struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedisMemberListCache(rdb *redis.Client) *RedisMemberListCache {
	return &RedisMemberListCache{
		rdb: rdb,
		key: constants.MemberListCacheKey,
		ttl: constants.MemberListCacheTTL,
	}
}

func (c *RedisMemberListCache) Get(ctx context.Context) ([]models.MemberSummary, bool, error) {
	var members []models.MemberSummary
	found, err := GetFromRedis(ctx, c.rdb, c.key, &members)
	if err != nil || !found {
		return nil, false, err
	}
	return members, true, nil
}

func (c *RedisMemberListCache) Set(ctx context.Context, members []models.MemberSummary) error {
	return SetToRedis(ctx, c.rdb, c.key, members, c.ttl)
}

func (c *RedisMemberListCache) Invalidate(ctx context.Context) error {
	return DeleteFromRedis(ctx, c.rdb, c.key)
}

// GetFromRedis decodes the JSON value at key into target. found is false
// when the key does not exist.
func GetFromRedis(ctx context.Context, rdb *redis.Client, key string, target interface{}) (bool, error) {
	cachedData, err := rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(cachedData), target); err != nil {
		return false, err
	}
	return true, nil
}

func SetToRedis(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) error {
	dataJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, dataJSON, ttl).Err()
}

func DeleteFromRedis(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err()
}
