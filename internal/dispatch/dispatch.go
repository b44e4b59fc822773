// Package dispatch submits tickets to the external ticketing service.
// The Dispatcher capability has two implementations selected once at
// configuration time: a simulated one for development and a live HTTP
// one. Submission is fire-once: no retries, queues, or backoff.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/user/helpline/internal/types"
)

// AuthScheme selects which credential header the live dispatcher sends.
type AuthScheme string

const (
	AuthServiceKey AuthScheme = "service-key" // x-service-key: <secret>
	AuthBearer     AuthScheme = "bearer"      // Authorization: Bearer <secret>
)

// Dispatcher performs exactly one submission attempt.
type Dispatcher interface {
	Submit(ctx context.Context, payload any) (*types.SubmitResult, error)
}

// Config selects and parameterizes the dispatcher implementation.
type Config struct {
	EndpointURL string
	Secret      string
	AuthScheme  AuthScheme
	Mock        bool
	// MockDelay overrides the simulated dispatcher's artificial delay.
	// Zero means the default.
	MockDelay time.Duration
}

// New returns the dispatcher implementation selected by cfg.
func New(cfg Config) Dispatcher {
	if cfg.Mock {
		return NewSimulated(cfg.MockDelay)
	}
	return NewLive(cfg.EndpointURL, cfg.Secret, cfg.AuthScheme)
}

// APIError is a failed dispatch: a non-2xx response, a transport
// failure, or a malformed success body. Details holds the parsed JSON
// error body when the remote returned one; Body always holds the raw
// response text so the diagnostic payload reaches the human verbatim.
type APIError struct {
	StatusCode int
	Body       string
	Details    json.RawMessage
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("ticket API error (status %d): %s", e.StatusCode, e.Details)
	}
	if e.Body != "" {
		return fmt.Sprintf("ticket API error (status %d): %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("ticket API error (status %d)", e.StatusCode)
}

// newAPIError parses the response body as JSON when possible.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}
	if json.Valid(body) {
		apiErr.Details = json.RawMessage(body)
	}
	return apiErr
}
