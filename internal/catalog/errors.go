package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogUnavailable covers transport failures, non-2xx responses
	// and undecodable bodies.  There is no automatic retry.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrCatalogEmpty is returned for a well-formed response with zero
	// results.
	ErrCatalogEmpty = errors.New("catalog returned no results")
	// ErrNotConfigured is returned when no usable API key is set.
	ErrNotConfigured = errors.New("catalog client not configured")
)

// StatusError reports a non-2xx answer from the catalog API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog: http %d", e.Code)
	}
	return fmt.Sprintf("catalog: http %d: %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error { return ErrCatalogUnavailable }
