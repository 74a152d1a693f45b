package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const requestKeyPrefix = "sale:req:"

// RedisAdapter claims sale request IDs so retried requests cannot commit a
// second sale. Claims expire after TTL so a dead client cannot pin a key
// forever.
type RedisAdapter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAdapter(client *redis.Client, ttl time.Duration) *RedisAdapter {
	return &RedisAdapter{client: client, ttl: ttl}
}

func (r *RedisAdapter) Claim(ctx context.Context, key string) (bool, error) {
	return r.client.SetNX(ctx, requestKeyPrefix+key, 1, r.ttl).Result()
}

func (r *RedisAdapter) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, requestKeyPrefix+key).Err()
}
