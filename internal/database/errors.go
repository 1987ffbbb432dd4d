package database

import "errors"

var (
	// ErrLinkExists is returned when an attempt is made to create a link
	// under a short code that is already taken. Codes are unique by
	// construction, so hitting this error means the counter invariant
	// was violated upstream.
	ErrLinkExists = errors.New("link exists")
	// ErrLinkNotFound is returned when an attempt is made to retrieve
	// a link using a short code that doesn't exist or has expired.
	ErrLinkNotFound = errors.New("link not found")
)
