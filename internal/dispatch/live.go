// internal/dispatch/live.go
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/user/helpline/internal/types"
)

// Live submits tickets over HTTP: one POST, one attempt, JSON body, and
// the configured credential header. Non-2xx responses become APIErrors
// carrying whatever diagnostic payload the remote returned.
type Live struct {
	endpoint string
	secret   string
	scheme   AuthScheme
	client   *http.Client
}

// NewLive creates a live dispatcher for the given endpoint.
func NewLive(endpoint, secret string, scheme AuthScheme) *Live {
	if scheme == "" {
		scheme = AuthServiceKey
	}
	return &Live{
		endpoint: endpoint,
		secret:   secret,
		scheme:   scheme,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// wireResponse tolerates both flat and nested ticket shapes.
type wireResponse struct {
	ID       string `json:"id"`
	TicketID string `json:"ticketId"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Ticket   *struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Priority string `json:"priority"`
	} `json:"ticket"`
	TicketURL string `json:"ticketUrl"`
	Message   string `json:"message"`
}

// Submit performs the single POST and normalizes the response.
func (l *Live) Submit(ctx context.Context, payload any) (*types.SubmitResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	switch l.scheme {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+l.secret)
	default:
		req.Header.Set("x-service-key", l.secret)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	var wire wireResponse
	if err := json.Unmarshal(respBody, &wire); err != nil {
		apiErr := newAPIError(resp.StatusCode, respBody)
		return nil, fmt.Errorf("malformed ticket response: %w", apiErr)
	}

	result := &types.SubmitResult{
		TicketID:  wire.TicketID,
		Status:    wire.Status,
		Priority:  wire.Priority,
		TicketURL: wire.TicketURL,
		Message:   wire.Message,
	}
	if result.TicketID == "" {
		result.TicketID = wire.ID
	}
	if wire.Ticket != nil {
		if wire.Ticket.ID != "" {
			result.TicketID = wire.Ticket.ID
		}
		if wire.Ticket.Status != "" {
			result.Status = wire.Ticket.Status
		}
		if wire.Ticket.Priority != "" {
			result.Priority = wire.Ticket.Priority
		}
	}
	if result.Status == "" {
		result.Status = "success"
	}
	return result, nil
}
