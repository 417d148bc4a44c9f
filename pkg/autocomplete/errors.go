package autocomplete

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLimit is returned when the result budget is not positive.
	ErrInvalidLimit = errors.New("autocomplete: limit must be positive")
	// ErrMissingSelectHandler is returned when no selection callback is configured.
	ErrMissingSelectHandler = errors.New("autocomplete: OnSelect is required")
	// ErrMissingClient is returned when remote lookups are enabled without a client.
	ErrMissingClient = errors.New("autocomplete: geocoding client is required unless LocalOnly is set")
	// ErrInvalidDebounce is returned for a negative debounce interval.
	ErrInvalidDebounce = errors.New("autocomplete: debounce must not be negative")
	// ErrInvalidZoom is returned when PointZoom is outside [0, 24].
	ErrInvalidZoom = errors.New("autocomplete: point zoom out of range")

	// ErrNoSelection is returned when confirming with nothing selected.
	ErrNoSelection = errors.New("autocomplete: no result selected")
	// ErrIndexOutOfRange is returned by Select for an index outside the result list.
	ErrIndexOutOfRange = errors.New("autocomplete: result index out of range")
	// ErrDisposed is returned by every handler after Dispose.
	ErrDisposed = errors.New("autocomplete: controller disposed")
)

// RemoteError reports a failed remote lookup for Query.
//
// The client error can be accessed via errors.Unwrap.
type RemoteError struct {
	Query string
	Limit int
	cause error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote geocode %q (limit %d): %v", e.Query, e.Limit, e.cause)
}

func (e *RemoteError) Unwrap() error { return e.cause }
