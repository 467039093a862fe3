package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means no API credential is present. Checked before
	// any network call is attempted.
	ErrNotConfigured = errors.New("ai: provider not configured")

	// ErrUpstream wraps provider-side failures (timeouts, quota, malformed
	// responses). The gateways never retry; that policy belongs to callers.
	ErrUpstream = errors.New("ai: upstream failure")
)

func upstreamErr(err error) error {
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
