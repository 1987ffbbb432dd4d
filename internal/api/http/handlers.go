package http

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"shortlink/internal/database"
	"shortlink/internal/models"
	"shortlink/pkg/response"
)

// fallbackIdentity is used for rate limiting when no forwarded address is
// present. All such clients share one window; degraded but harmless.
const fallbackIdentity = "127.0.0.1"

// clientIdentity derives the rate-limit identity from the first entry of
// X-Forwarded-For.
func clientIdentity(r *http.Request) string {
	xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xff == "" {
		return fallbackIdentity
	}

	if identity := strings.TrimSpace(strings.Split(xff, ",")[0]); identity != "" {
		return identity
	}

	return fallbackIdentity
}

// handleHealth handles liveness checks.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.HealthResponse)
}

// shortenRequest represents the request payload for creating a short link.
type shortenRequest struct {
	URL       string `json:"url" validate:"required"`
	ExpiresIn *int64 `json:"expiresIn" validate:"omitempty,gt=0"`
}

// handleShortenURL handles POST requests to shorten a URL.
//
// Validation and the rate-limit check both run before any counter movement:
// a 400 or 429 response never consumes a short code.
func handleShortenURL(svc LinkService, validate *validator.Validate, baseURL string) http.HandlerFunc {
	const op = "api.http.handleShortenURL"

	baseURL = strings.TrimRight(baseURL, "/")

	return func(w http.ResponseWriter, r *http.Request) {
		var req shortenRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		var ttl time.Duration
		if req.ExpiresIn != nil {
			ttl = time.Duration(*req.ExpiresIn) * time.Second
		}

		link, remaining, err := svc.ShortenURL(r.Context(), clientIdentity(r), req.URL, ttl)
		if err != nil {
			var rateErr *models.RateLimitError
			if errors.As(err, &rateErr) {
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.RateLimitedResponse(rateErr.RetryAfter, rateErr.Limit, rateErr.Window))
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Shortened{
			ShortCode:          link.ShortCode,
			ShortURL:           baseURL + "/" + link.ShortCode,
			OriginalURL:        link.OriginalURL,
			ExpiresIn:          req.ExpiresIn,
			RateLimitRemaining: remaining,
		})
	}
}

// handleRedirect handles GET requests on a short code and issues a 302 to
// the stored destination. 302 rather than 301 keeps destinations mutable
// and clicks trackable.
func handleRedirect(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		link, err := svc.ResolveShortCode(r.Context(), shortCode)
		if err != nil {
			if errors.Is(err, database.ErrLinkNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.LinkNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		http.Redirect(w, r, link.OriginalURL, http.StatusFound)
	}
}

// handleLinkStats handles GET requests for the usage statistics of a short
// link. Read-only: looking at stats never counts as a visit.
func handleLinkStats(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleLinkStats"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		link, err := svc.GetLinkStats(r.Context(), shortCode)
		if err != nil {
			if errors.Is(err, database.ErrLinkNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.LinkNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.Stats{
			ShortCode:   link.ShortCode,
			OriginalURL: link.OriginalURL,
			Clicks:      link.Clicks,
		})
	}
}
