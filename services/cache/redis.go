package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	cs "github.com/webtor-io/common-services"
)

// Redis adapts the shared Redis client to the cache Backend.
type Redis struct {
	rc *cs.RedisClient
}

func NewRedis(rc *cs.RedisClient) *Redis {
	if rc == nil {
		return nil
	}
	return &Redis{rc: rc}
}

func (b *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	cl := b.rc.Get()
	if cl == nil {
		return nil, false, nil
	}
	data, err := cl.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (b *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cl := b.rc.Get()
	if cl == nil {
		return nil
	}
	return cl.Set(ctx, key, value, ttl).Err()
}

var _ Backend = (*Redis)(nil)
