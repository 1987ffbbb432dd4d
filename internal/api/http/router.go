package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"

	"shortlink/internal/models"
)

// LinkService defines the interface for the core link resolution and
// abuse-control logic consumed by the HTTP layer.
type LinkService interface {
	// ShortenURL creates a short link for originalURL on behalf of the
	// client identity, returning the link and the remaining rate-limit
	// quota. A rejected request fails with *models.RateLimitError.
	ShortenURL(ctx context.Context, identity, originalURL string, ttl time.Duration) (*models.Link, int, error)

	// ResolveShortCode returns the destination for a short code and
	// counts the visit.
	ResolveShortCode(ctx context.Context, shortCode string) (*models.Link, error)

	// GetLinkStats retrieves a link and its click count without mutation.
	GetLinkStats(ctx context.Context, shortCode string) (*models.Link, error)
}

// getValidate initializes a validator instance for incoming request
// payloads, taking field names from JSON tags.
func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// NewRouter initializes and returns a new HTTP router with all routes and
// middleware configured. baseURL is the public prefix used to build the
// shortUrl field of shorten responses.
func NewRouter(logger *httplog.Logger, linkSvc LinkService, baseURL string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	validate := getValidate()

	shorten := handleShortenURL(linkSvc, validate, baseURL)
	stats := handleLinkStats(linkSvc)

	r.Get("/api/health", handleHealth)

	// The creation and stats endpoints are served both bare and under
	// /api; the bare redirect route stays last so static segments win.
	r.Post("/api/shorten", shorten)
	r.Post("/shorten", shorten)
	r.Get("/api/stats/{shortCode}", stats)
	r.Get("/stats/{shortCode}", stats)
	r.Get("/{shortCode}", handleRedirect(linkSvc))

	return r
}
