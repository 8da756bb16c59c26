package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/quantumlife/cogmind/internal/health"
)

// APIError is a non-2xx response from a provider.
type APIError struct {
	Provider   Provider
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Provider, e.StatusCode, e.Body)
}

// MalformedError is a response the provider returned but we could not
// make sense of.
type MalformedError struct {
	Reason  string
	Content string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed response: %s (content %q)", e.Reason, e.Content)
}

// Classify maps a collaborator error onto the failure taxonomy the
// health tracker understands.
func Classify(err error) health.Category {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return health.CategoryRateLimit
		}
		return health.CategoryAPI
	}

	var malformed *MalformedError
	if errors.As(err, &malformed) {
		return health.CategoryMalformed
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return health.CategoryTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return health.CategoryTimeout
		}
		return health.CategoryNetwork
	}
	if strings.Contains(err.Error(), "connection refused") {
		return health.CategoryNetwork
	}
	return health.CategoryAPI
}

// retryable reports whether a failed call is worth another attempt.
// Rate limits retry after a longer pause; malformed content retries in
// case the model misfired; auth and 4xx errors do not.
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	var malformed *MalformedError
	if errors.As(err, &malformed) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true // network and timeout errors
}

// cleanJSON strips markdown code fences the model may wrap around a JSON
// payload and validates the result at least looks like an object.
func cleanJSON(text string) (string, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if !strings.HasPrefix(cleaned, "{") || !strings.HasSuffix(cleaned, "}") {
		return "", &MalformedError{Reason: "content is not a JSON object", Content: cleaned}
	}
	return cleaned, nil
}
