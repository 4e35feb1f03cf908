package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var limiterScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals)
		last_refill = last_refill + (intervals * interval_ms)
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// RateLimiter is a token bucket per key: capacity tokens, one refilled
// every window/capacity.
type RateLimiter struct {
	rdb      *redis.Client
	prefix   string
	capacity int
	window   time.Duration
}

type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

func NewRateLimiter(rdb *redis.Client, prefix string, capacity int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, prefix: prefix, capacity: capacity, window: window}
}

// Allow takes a token for key. Without Redis, or on a Redis error, the
// request is allowed.
func (l *RateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l == nil || l.rdb == nil || l.capacity <= 0 {
		return Decision{Allowed: true}, nil
	}

	interval := l.window / time.Duration(l.capacity)
	if interval <= 0 {
		interval = time.Millisecond
	}
	vals, err := limiterScript.Run(ctx, l.rdb, []string{"wotro:rl:" + l.prefix + ":" + key},
		time.Now().UnixMilli(), l.capacity, interval.Milliseconds(), int64(l.window/time.Second)+1).Result()
	if err != nil {
		return Decision{Allowed: true}, err
	}

	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 3 {
		return Decision{Allowed: true}, fmt.Errorf("unexpected limiter result: %#v", vals)
	}
	return Decision{
		Allowed:    asInt64(arr[0]) == 1,
		Remaining:  asInt64(arr[1]),
		RetryAfter: time.Duration(asInt64(arr[2])) * time.Millisecond,
	}, nil
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
