package notify

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a dispatch did not reach the recipient.
type FailureKind string

const (
	// FailureNetwork covers transport errors: DNS, refused connections, timeouts.
	FailureNetwork FailureKind = "network"
	// FailureRemoteRejection means the endpoint answered with a non-2xx status.
	FailureRemoteRejection FailureKind = "remote-rejection"
)

// ErrNotConfigured is returned when a channel lacks credentials.
var ErrNotConfigured = errors.New("notification channel not configured")

// DispatchFailure is the non-fatal error reported for a failed send.
type DispatchFailure struct {
	Kind       FailureKind
	StatusCode int
	Body       string
	Err        error
}

func (f *DispatchFailure) Error() string {
	switch f.Kind {
	case FailureRemoteRejection:
		return fmt.Sprintf("dispatch rejected: status %d: %s", f.StatusCode, f.Body)
	default:
		if f.Err == nil {
			return fmt.Sprintf("dispatch failed: %s", f.Kind)
		}
		return fmt.Sprintf("dispatch failed: %s: %v", f.Kind, f.Err)
	}
}

func (f *DispatchFailure) Unwrap() error {
	return f.Err
}

// AsDispatchFailure extracts a DispatchFailure from err.
func AsDispatchFailure(err error) (*DispatchFailure, bool) {
	var failure *DispatchFailure
	if errors.As(err, &failure) {
		return failure, true
	}
	return nil, false
}
