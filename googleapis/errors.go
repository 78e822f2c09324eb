// Package googleapis holds the pieces shared by the Google API clients:
// error classification and request pacing.
package googleapis

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"video-maker-pipeline/types"
)

var (
	// ErrUnauthorized indicates invalid or expired credentials.
	ErrUnauthorized = errors.New("google: unauthorised (invalid credentials)")

	// ErrForbidden indicates insufficient permissions.
	ErrForbidden = errors.New("google: forbidden (insufficient permissions)")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("google: rate limit exceeded")

	// ErrQuotaExceeded indicates the daily API quota was exceeded.
	ErrQuotaExceeded = errors.New("google: quota exceeded")
)

var quotaReasons = map[string]bool{
	"quotaExceeded":       true,
	"dailyLimitExceeded":  true,
	"uploadLimitExceeded": true,
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}
	return false
}

// IsQuotaExceeded returns true for 403 responses carrying a quota reason.
func IsQuotaExceeded(err error) bool {
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusForbidden {
		return false
	}
	for _, item := range gerr.Errors {
		if quotaReasons[item.Reason] {
			return true
		}
	}
	return false
}

// WrapError converts a Google API error into a CollaboratorError for
// service. The classified sentinel and the original message are both kept.
func WrapError(service string, err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return types.Collaborator(service, err)
	}

	var kind error
	switch {
	case gerr.Code == http.StatusUnauthorized:
		kind = ErrUnauthorized
	case IsQuotaExceeded(err):
		kind = ErrQuotaExceeded
	case gerr.Code == http.StatusForbidden:
		kind = ErrForbidden
	case gerr.Code == http.StatusTooManyRequests:
		kind = ErrRateLimited
	default:
		return types.Collaborator(service, err)
	}
	return types.Collaborator(service, fmt.Errorf("%w: %w", kind, err))
}
