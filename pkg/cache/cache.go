package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store 带 TTL 的读穿缓存。排行榜和比赛列表都通过它共享，
// 避免按 key 分散的包级可变状态。
type Store interface {
	// GetOrCompute 命中时将缓存值反序列化到 dest 并返回 true；
	// 未命中时调用 compute，写回缓存后同样填充 dest。
	// compute 返回错误时不缓存任何内容。
	GetOrCompute(ctx context.Context, key string, ttl time.Duration, dest interface{}, compute func() (interface{}, error)) (bool, error)

	// Invalidate 删除一个缓存条目
	Invalidate(ctx context.Context, key string) error
}

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) GetOrCompute(ctx context.Context, key string, ttl time.Duration, dest interface{}, compute func() (interface{}, error)) (bool, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		if err := json.Unmarshal([]byte(val), dest); err == nil {
			return true, nil
		}
		// 缓存内容损坏按未命中处理
	} else if err != redis.Nil {
		return false, err
	}

	fresh, err := compute()
	if err != nil {
		return false, err
	}

	payload, err := json.Marshal(fresh)
	if err != nil {
		return false, err
	}

	if err := s.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		return false, err
	}

	return false, json.Unmarshal(payload, dest)
}

func (s *RedisStore) Invalidate(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
