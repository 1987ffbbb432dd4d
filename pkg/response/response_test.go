package response

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitedResponse(t *testing.T) {
	tests := []struct {
		name       string
		retryAfter time.Duration
		limit      int
		window     time.Duration
		want       RateLimited
	}{
		{
			name:       "whole seconds",
			retryAfter: 42 * time.Second,
			limit:      10,
			window:     time.Minute,
			want: RateLimited{
				Error:      "too many requests",
				RetryAfter: "42 seconds",
				Limit:      10,
				Window:     "60 seconds",
			},
		},
		{
			name:       "zero retry",
			retryAfter: 0,
			limit:      10,
			window:     time.Minute,
			want: RateLimited{
				Error:      "too many requests",
				RetryAfter: "0 seconds",
				Limit:      10,
				Window:     "60 seconds",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RateLimitedResponse(tt.retryAfter, tt.limit, tt.window)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationErrorResponse(t *testing.T) {
	type req struct {
		URL       string `json:"url" validate:"required"`
		ExpiresIn *int64 `json:"expiresIn" validate:"omitempty,gt=0"`
	}

	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	negative := int64(-1)

	tests := []struct {
		name string
		req  req
		want Error
	}{
		{
			name: "missing url",
			req:  req{},
			want: Error{Error: "url is required"},
		},
		{
			name: "non-positive expiresIn",
			req:  req{URL: "https://example.com", ExpiresIn: &negative},
			want: Error{Error: "expiresIn must be a positive number (seconds)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)
			got := ValidationErrorResponse(err)

			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("not a validation error", func(t *testing.T) {
		got := ValidationErrorResponse(assert.AnError)

		assert.Equal(t, BadRequestResponse, got)
	})
}
