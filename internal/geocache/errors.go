package geocache

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBounds = errors.New("geocache: invalid bounding box")
	// ErrQueryTooLarge is matched by *QueryTooLargeError.
	ErrQueryTooLarge = errors.New("geocache: bounding box too large")
	// ErrQueryFailed is matched by *QueryFailure.
	ErrQueryFailed = errors.New("geocache: overlay query failed")
)

// QueryTooLargeError rejects a box wider or taller than MaxSpan degrees.
type QueryTooLargeError struct {
	LatSpan float64
	LonSpan float64
	MaxSpan float64
}

func (e *QueryTooLargeError) Error() string {
	return fmt.Sprintf("geocache: bounding box %.3f x %.3f degrees exceeds the %.2f degree limit",
		e.LatSpan, e.LonSpan, e.MaxSpan)
}

func (e *QueryTooLargeError) Is(target error) bool { return target == ErrQueryTooLarge }

// QueryFailure wraps a transport or decoding error from the geodata service.
// Its message is the underlying error's, unchanged.
type QueryFailure struct {
	Err error
}

func (e *QueryFailure) Error() string { return e.Err.Error() }

func (e *QueryFailure) Unwrap() error { return e.Err }

func (e *QueryFailure) Is(target error) bool { return target == ErrQueryFailed }
