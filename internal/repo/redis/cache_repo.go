package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// CacheRepo stores opaque cached payloads with a TTL.
type CacheRepo struct {
	client *goredis.Client
	prefix string
}

func NewCacheRepo(client *goredis.Client) *CacheRepo {
	return &CacheRepo{client: client, prefix: "cache:"}
}

// Get returns the cached bytes and whether the key was present.
func (r *CacheRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}

	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cache key: %w", err)
	}
	return data, true, nil
}

func (r *CacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set cache key: %w", err)
	}
	return nil
}
