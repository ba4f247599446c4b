package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"healthwatch/internal/models"
)

const (
	leaderboardKey = "leaderboard:top"
	leaderboardTTL = 30 * time.Second

	outbreakLockPrefix = "outbreak:lock:"
)

// ErrMiss is returned when a key is absent.
var ErrMiss = errors.New("cache miss")

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{client: client}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) GetLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	data, err := c.client.Get(ctx, leaderboardKey).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *RedisCache) SetLeaderboard(ctx context.Context, entries []models.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, leaderboardKey, data, leaderboardTTL).Err()
}

func (c *RedisCache) InvalidateLeaderboard(ctx context.Context) error {
	return c.client.Del(ctx, leaderboardKey).Err()
}

// OutbreakLockKey scopes a lock to one region and case-folded diagnosis.
func OutbreakLockKey(region, diagnosis string) string {
	return outbreakLockPrefix + region + ":" + strings.ToLower(diagnosis)
}

// Acquire takes key for ttl. The returned release func is a no-op when the
// lock was not taken.
func (c *RedisCache) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, func(), error) {
	token := uuid.New().String()
	ok, err := c.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return false, func() {}, err
	}
	release := func() {
		releaseScript.Run(context.Background(), c.client, []string{key}, token)
	}
	return true, release, nil
}
