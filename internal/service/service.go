package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shortlink/internal/models"
)

// LinkRepository defines the interface for working with link records at the
// business logic layer.
type LinkRepository interface {
	// Create writes a new link record with zero clicks. A positive ttl
	// makes the record expire that long after creation.
	Create(ctx context.Context, shortCode, originalURL string, ttl time.Duration) (*models.Link, error)

	// Get retrieves a link record by its short code without mutating it.
	Get(ctx context.Context, shortCode string) (*models.Link, error)

	// IncrementClicks atomically increments the click counter of a live
	// record and returns the new count.
	IncrementClicks(ctx context.Context, shortCode string) (int64, error)
}

// RateLimiter gates link creation per client identity.
type RateLimiter interface {
	Allow(ctx context.Context, identity string, now time.Time) (models.Decision, error)
}

// Generator allocates fresh, never-reused short codes.
type Generator interface {
	Allocate(ctx context.Context) (string, error)
}

// LinkService orchestrates code allocation, link persistence and rate
// limiting. It holds no durable state of its own; everything lives in the
// shared store.
type LinkService struct {
	repo    LinkRepository
	limiter RateLimiter
	gen     Generator
	logger  *slog.Logger
	now     func() time.Time
}

// NewLinkService creates a new instance of LinkService with the provided
// collaborators.
func NewLinkService(repo LinkRepository, limiter RateLimiter, gen Generator, logger *slog.Logger) *LinkService {
	return &LinkService{
		repo:    repo,
		limiter: limiter,
		gen:     gen,
		logger:  logger,
		now:     time.Now,
	}
}

// ShortenURL creates a new short link for originalURL on behalf of the
// given client identity. A zero ttl stores the link indefinitely.
//
// The rate limiter is consulted first: a rejected request allocates no
// code, creates no record and returns *models.RateLimitError. On admission
// the remaining quota for the window is reported alongside the link.
func (s *LinkService) ShortenURL(ctx context.Context, identity, originalURL string, ttl time.Duration) (*models.Link, int, error) {
	const op = "service.LinkService.ShortenURL"

	decision, err := s.limiter.Allow(ctx, identity, s.now())
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to check rate limit: %w", op, err)
	}

	if !decision.Allowed {
		return nil, 0, &models.RateLimitError{
			RetryAfter: decision.RetryAfter,
			Limit:      decision.Limit,
			Window:     decision.Window,
		}
	}

	shortCode, err := s.gen.Allocate(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to allocate short code: %w", op, err)
	}

	// Allocation and persistence are two separate store operations. A
	// failure here leaves an allocated code with no record, which is
	// acceptable: codes are never reused, so nothing can collide with it.
	link, err := s.repo.Create(ctx, shortCode, originalURL, ttl)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to create link: %w", op, err)
	}

	return link, decision.Remaining, nil
}

// ResolveShortCode returns the destination URL for a short code and counts
// the visit. The click increment must never fail the redirect: an increment
// error is logged and the destination is returned regardless.
func (s *LinkService) ResolveShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	const op = "service.LinkService.ResolveShortCode"

	link, err := s.repo.Get(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	count, err := s.repo.IncrementClicks(ctx, shortCode)
	if err != nil {
		s.logger.Warn("failed to increment clicks",
			slog.String("op", op),
			slog.String("short_code", shortCode),
			slog.Any("err", err),
		)
		return link, nil
	}
	link.Clicks = count

	return link, nil
}

// GetLinkStats retrieves a link and its click count without mutating
// anything. Stats reads never consult the rate limiter.
func (s *LinkService) GetLinkStats(ctx context.Context, shortCode string) (*models.Link, error) {
	const op = "service.LinkService.GetLinkStats"

	link, err := s.repo.Get(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get link stats: %w", op, err)
	}

	return link, nil
}
