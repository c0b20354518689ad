package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamUnavailable signals any failure talking to the clustering service.
	ErrUpstreamUnavailable = errors.New("clustering service unavailable")
	// ErrInvalidClusterData signals a malformed clustering response envelope.
	ErrInvalidClusterData = errors.New("invalid clustering response envelope")
	// ErrEmptyText signals a missing or blank text field in an analyze request.
	ErrEmptyText = errors.New("text input is required")
)

// Upstream failure causes. All of them collapse to a single 503 at the HTTP
// boundary; the distinction survives only in logs and metrics.
const (
	CauseTimeout = "timeout"
	CauseConnect = "connect"
	CauseStatus  = "status"
	CauseDecode  = "decode"
)

// UpstreamError wraps ErrUpstreamUnavailable with the concrete failure cause.
type UpstreamError struct {
	Cause string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrUpstreamUnavailable.Error(), e.Cause, e.Err)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstreamUnavailable }

// NewUpstreamError creates an upstream failure with a cause tag.
func NewUpstreamError(cause string, err error) error {
	return &UpstreamError{Cause: cause, Err: err}
}
