package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/redis/go-redis/v9"

	"shortlink/internal/models"
)

func windowKey(identity string) string {
	return "ratelimit:" + identity
}

// slidingWindowScript runs the purge-count-record sequence as one atomic
// unit per identity. Splitting it into separate round trips would let two
// concurrent requests both observe count = max-1 and both be admitted.
//
// KEYS[1] window ZSET; ARGV: now ms, window ms, max requests, idle TTL ms,
// member. Returns {1, count} on admission or {0, count, oldest score} on
// rejection; a rejected request adds no timestamp.
var slidingWindowScript = redis.NewScript(`
local cutoff = tonumber(ARGV[1]) - tonumber(ARGV[2])
redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, cutoff)
local count = redis.call('ZCARD', KEYS[1])
if count >= tonumber(ARGV[3]) then
	local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
	return {0, count, oldest[2]}
end
redis.call('ZADD', KEYS[1], ARGV[1], ARGV[5])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return {1, count}
`)

// RateLimiter admits at most limit requests per identity within any
// trailing window, backed by a per-identity ZSET of admission timestamps.
type RateLimiter struct {
	client  *redis.Client
	limit   int
	window  time.Duration
	idleTTL time.Duration
}

func NewRateLimiter(client *redis.Client, limit int, window, idleTTL time.Duration) *RateLimiter {
	return &RateLimiter{
		client:  client,
		limit:   limit,
		window:  window,
		idleTTL: idleTTL,
	}
}

// Allow records now as an admitted request for identity if the window has
// room, refreshing the identity's idle expiry. On rejection it reports how
// long until the oldest admitted request leaves the window, rounded up to
// whole seconds.
func (l *RateLimiter) Allow(ctx context.Context, identity string, now time.Time) (models.Decision, error) {
	const op = "database.redis.RateLimiter.Allow"

	nowMs := now.UnixMilli()

	// Timestamps alone don't make unique ZSET members: two admissions in
	// the same millisecond must occupy two entries, not one.
	member := strconv.FormatInt(nowMs, 10) + "-" + gonanoid.Must(8)

	res, err := slidingWindowScript.Run(ctx, l.client,
		[]string{windowKey(identity)},
		nowMs, l.window.Milliseconds(), l.limit, l.idleTTL.Milliseconds(), member,
	).Slice()
	if err != nil {
		return models.Decision{}, fmt.Errorf("%s: failed to run sliding window script: %w", op, err)
	}
	if len(res) < 2 {
		return models.Decision{}, fmt.Errorf("%s: unexpected script reply of length %d", op, len(res))
	}

	decision := models.Decision{
		Limit:  l.limit,
		Window: l.window,
	}

	allowed, _ := res[0].(int64)
	count, _ := res[1].(int64)

	if allowed == 1 {
		decision.Allowed = true
		decision.Remaining = l.limit - int(count) - 1
		return decision, nil
	}

	oldestMs := nowMs - l.window.Milliseconds()
	if len(res) > 2 {
		if s, ok := res[2].(string); ok {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				oldestMs = int64(f)
			}
		}
	}

	decision.RetryAfter = retryAfter(oldestMs, nowMs, l.window)

	return decision, nil
}

// retryAfter is the time until the oldest surviving timestamp exits the
// window, clamped to >= 0 and rounded up to whole seconds.
func retryAfter(oldestMs, nowMs int64, window time.Duration) time.Duration {
	deltaMs := oldestMs + window.Milliseconds() - nowMs
	if deltaMs < 0 {
		deltaMs = 0
	}

	secs := (deltaMs + 999) / 1000

	return time.Duration(secs) * time.Second
}
