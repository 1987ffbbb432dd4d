// Package models defines the domain types shared between the storage,
// service and API layers.
package models

import "time"

// Link represents a shortened URL record.
type Link struct {
	// ShortCode is the public identifier derived from the global counter.
	ShortCode string
	// OriginalURL is the destination the short code resolves to.
	OriginalURL string
	// Clicks is the number of successful redirects through the code.
	Clicks int64
	// TTL is the remaining lifetime of the record; zero means no expiry.
	TTL time.Duration
}
