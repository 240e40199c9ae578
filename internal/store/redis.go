package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each key as a plain Redis string.  SET replaces the
// value atomically, which gives whole-collection writes for free.
type RedisBackend struct {
	rdb *redis.Client
}

// NewRedisBackend wraps an existing client.  The caller keeps ownership of
// the client unless Close is called.
func NewRedisBackend(rdb *redis.Client) *RedisBackend { return &RedisBackend{rdb: rdb} }

func (r *RedisBackend) Read(ctx context.Context, key string) ([]byte, error) {
	bs, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return bs, err
}

func (r *RedisBackend) Write(ctx context.Context, key string, value []byte) error {
	return r.rdb.Set(ctx, key, value, 0).Err()
}

func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}

func (r *RedisBackend) Close() error { return r.rdb.Close() }
