// Package ratelimit throttles calls against rate-limited services.  Local
// wraps an in-process token bucket; RedisBucket runs the same token bucket
// as a Lua script in Redis so several processes share one budget.  The HTTP
// middleware and the catalog client both draw from these buckets.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter blocks until one call may proceed or ctx is done.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Local is an in-process limiter.
type Local struct {
	l *rate.Limiter
}

// NewLocal allows rps calls per second with the given burst.  A
// non-positive rps disables throttling.
func NewLocal(rps float64, burst int) *Local {
	if burst < 1 {
		burst = 1
	}
	lim := rate.Limit(rps)
	if rps <= 0 {
		lim = rate.Inf
	}
	return &Local{l: rate.NewLimiter(lim, burst)}
}

func (l *Local) Wait(ctx context.Context) error { return l.l.Wait(ctx) }

// Unlimited never blocks.
type Unlimited struct{}

func (Unlimited) Wait(context.Context) error { return nil }

// BucketConfig describes a token bucket.
type BucketConfig struct {
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
}

// Decision is the outcome of one Take.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

var bucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		local until_next = interval_ms - (now_ms - last_refill)
		if until_next < 0 then until_next = 0 end
		retry_after_ms = until_next
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill, 'capacity', capacity)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// RedisBucket is a token bucket stored in Redis.
type RedisBucket struct {
	rdb *redis.Client
	cfg BucketConfig
	now func() time.Time
}

// NewRedisBucket normalises cfg the same way the HTTP rate-limit settings
// are normalised and returns a bucket backed by rdb.
func NewRedisBucket(rdb *redis.Client, cfg BucketConfig) *RedisBucket {
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return &RedisBucket{rdb: rdb, cfg: cfg, now: time.Now}
}

// Capacity returns the configured bucket size.
func (b *RedisBucket) Capacity() int { return b.cfg.Capacity }

// Take consumes one token from the bucket stored under key.
func (b *RedisBucket) Take(ctx context.Context, key string) (Decision, error) {
	args := []interface{}{
		b.now().UnixMilli(),
		b.cfg.Capacity,
		b.cfg.RefillTokens,
		b.cfg.RefillInterval.Milliseconds(),
		int64(b.cfg.TTL / time.Second),
	}
	vals, err := bucketScript.Run(ctx, b.rdb, []string{key}, args...).Result()
	if err != nil {
		return Decision{}, err
	}
	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 3 {
		return Decision{}, fmt.Errorf("ratelimit: unexpected script result %#v", vals)
	}
	return Decision{
		Allowed:    asInt64(arr[0]) == 1,
		Remaining:  asInt64(arr[1]),
		RetryAfter: time.Duration(asInt64(arr[2])) * time.Millisecond,
	}, nil
}

// Limiter returns a Limiter drawing from the bucket under key.  Redis
// errors let the call through rather than block the caller.
func (b *RedisBucket) Limiter(key string) Limiter { return &keyedLimiter{b: b, key: key} }

type keyedLimiter struct {
	b   *RedisBucket
	key string
}

func (k *keyedLimiter) Wait(ctx context.Context) error {
	for {
		d, err := k.b.Take(ctx, k.key)
		if err != nil || d.Allowed {
			return ctx.Err()
		}
		wait := d.RetryAfter
		if wait < 10*time.Millisecond {
			wait = 10 * time.Millisecond
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
