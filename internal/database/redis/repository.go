package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shortlink/internal/database"
	"shortlink/internal/models"
)

func urlKey(code string) string {
	return "url:" + code
}

func clicksKey(code string) string {
	return "url:" + code + ":clicks"
}

// incrClicksScript increments the click counter only while the URL key is
// alive, so expired or unknown codes never grow a counter. If the counter
// key is missing but the URL key carries a TTL, the new counter inherits
// that TTL to keep both keys expiring together.
var incrClicksScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
local count = redis.call('INCR', KEYS[2])
local ttl = redis.call('PTTL', KEYS[1])
if ttl > 0 and redis.call('PTTL', KEYS[2]) < 0 then
	redis.call('PEXPIRE', KEYS[2], ttl)
end
return count
`)

// LinkRepository persists link records as a pair of keys per short code:
// the original URL under url:<code> and the click counter under
// url:<code>:clicks.
type LinkRepository struct {
	client *redis.Client
}

func NewLinkRepository(client *redis.Client) *LinkRepository {
	return &LinkRepository{
		client: client,
	}
}

// Create writes a new link record with zero clicks. A positive ttl makes
// both keys expire together that many seconds from now; zero ttl stores the
// record indefinitely. An already-taken code yields database.ErrLinkExists.
func (r *LinkRepository) Create(ctx context.Context, shortCode, originalURL string, ttl time.Duration) (*models.Link, error) {
	const op = "database.redis.LinkRepository.Create"

	created, err := r.client.SetNX(ctx, urlKey(shortCode), originalURL, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create link record: %w", op, err)
	}
	if !created {
		return nil, fmt.Errorf("%s: %w", op, database.ErrLinkExists)
	}

	if err := r.client.Set(ctx, clicksKey(shortCode), 0, ttl).Err(); err != nil {
		return nil, fmt.Errorf("%s: failed to create click counter: %w", op, err)
	}

	return &models.Link{
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		Clicks:      0,
		TTL:         ttl,
	}, nil
}

// Get retrieves the link record for a short code. A missing or expired URL
// key yields database.ErrLinkNotFound; a missing click counter reads as 0.
func (r *LinkRepository) Get(ctx context.Context, shortCode string) (*models.Link, error) {
	const op = "database.redis.LinkRepository.Get"

	pipe := r.client.Pipeline()
	urlCmd := pipe.Get(ctx, urlKey(shortCode))
	clicksCmd := pipe.Get(ctx, clicksKey(shortCode))

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: failed to get link record: %w", op, err)
	}

	originalURL, err := urlCmd.Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}
		return nil, fmt.Errorf("%s: failed to get link record: %w", op, err)
	}

	clicks, err := clicksCmd.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: failed to get click counter: %w", op, err)
	}

	return &models.Link{
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		Clicks:      clicks,
	}, nil
}

// IncrementClicks atomically increments the click counter for a live short
// code and returns the new count. Expired or unknown codes yield
// database.ErrLinkNotFound without fabricating a counter.
func (r *LinkRepository) IncrementClicks(ctx context.Context, shortCode string) (int64, error) {
	const op = "database.redis.LinkRepository.IncrementClicks"

	count, err := incrClicksScript.Run(ctx, r.client, []string{urlKey(shortCode), clicksKey(shortCode)}).Int64()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to increment clicks: %w", op, err)
	}
	if count < 0 {
		return 0, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
	}

	return count, nil
}
