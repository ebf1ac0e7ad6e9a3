package store

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a Redis client with optional password auth and
// pings it so a bad address fails at startup, not on the first OTP.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
