// Package response defines the JSON payloads returned by the API.
package response

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Error is the body of every client-facing failure except rate limiting.
type Error struct {
	Error string `json:"error"`
}

var (
	EmptyRequestBodyResponse = Error{Error: "request body is empty"}
	BadRequestResponse       = Error{Error: "invalid request body"}
	LinkNotFoundResponse     = Error{Error: "short url not found"}
	ServerErrorResponse      = Error{Error: "internal server error"}
)

// RateLimited is the body of a 429 rejection. RetryAfter and Window are
// rendered as "<n> seconds" strings.
type RateLimited struct {
	Error      string `json:"error"`
	RetryAfter string `json:"retryAfter"`
	Limit      int    `json:"limit"`
	Window     string `json:"window"`
}

func RateLimitedResponse(retryAfter time.Duration, limit int, window time.Duration) RateLimited {
	return RateLimited{
		Error:      "too many requests",
		RetryAfter: seconds(retryAfter),
		Limit:      limit,
		Window:     seconds(window),
	}
}

// Shortened is the body of a successful shorten request.
type Shortened struct {
	ShortCode          string `json:"shortCode"`
	ShortURL           string `json:"shortUrl"`
	OriginalURL        string `json:"originalUrl"`
	ExpiresIn          *int64 `json:"expiresIn"`
	RateLimitRemaining int    `json:"rateLimitRemaining"`
}

// Stats is the body of a stats request.
type Stats struct {
	ShortCode   string `json:"shortCode"`
	OriginalURL string `json:"originalUrl"`
	Clicks      int64  `json:"clicks"`
}

// Health is the body of the liveness endpoint.
type Health struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

var HealthResponse = Health{
	Message: "URL Shortener API",
	Status:  "running",
}

// ValidationErrorResponse maps the first failed field to a client-facing
// message.
func ValidationErrorResponse(err error) Error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return BadRequestResponse
	}

	fieldErr := validationErrs[0]

	switch {
	case fieldErr.Field() == "url":
		return Error{Error: "url is required"}
	case fieldErr.Field() == "expiresIn":
		return Error{Error: "expiresIn must be a positive number (seconds)"}
	default:
		return Error{Error: fmt.Sprintf("%s is invalid", fieldErr.Field())}
	}
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%d seconds", int64(d.Seconds()))
}
