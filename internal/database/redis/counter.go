package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const counterKey = "url:counter"

// Counter is the process-wide source of short code numbers. It owns no
// local state: every allocation is a linearizable INCR against the shared
// store, so concurrent callers always receive distinct, increasing values.
type Counter struct {
	client *redis.Client
}

func NewCounter(client *redis.Client) *Counter {
	return &Counter{
		client: client,
	}
}

// Next returns a fresh counter value, starting at 1. Values are never
// reused; a value consumed by a request that later fails simply leaves a
// gap in the code space.
func (c *Counter) Next(ctx context.Context) (int64, error) {
	const op = "database.redis.Counter.Next"

	n, err := c.client.Incr(ctx, counterKey).Result()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to increment counter: %w", op, err)
	}

	return n, nil
}
