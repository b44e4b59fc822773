// internal/dispatch/simulated.go
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/user/helpline/internal/types"
)

const defaultMockDelay = 500 * time.Millisecond

// Simulated synthesizes a ticket response after a fixed artificial delay
// without any network access. Used for development and tests.
type Simulated struct {
	delay time.Duration
	now   func() time.Time
}

// NewSimulated creates a simulated dispatcher. A zero delay selects the
// default artificial delay.
func NewSimulated(delay time.Duration) *Simulated {
	if delay == 0 {
		delay = defaultMockDelay
	}
	return &Simulated{delay: delay, now: time.Now}
}

// Submit returns a deterministic-shaped fake response.
func (s *Simulated) Submit(ctx context.Context, payload any) (*types.SubmitResult, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	id := fmt.Sprintf("MOCK-%d", s.now().UnixMilli())
	result := &types.SubmitResult{
		TicketID:  id,
		Status:    "mock_success",
		TicketURL: "https://support.example.com/tickets/" + id,
		Message:   "Simulated submission; no ticket was actually created.",
	}
	if t, ok := payload.(*types.Ticket); ok {
		result.Priority = string(t.Priority)
	}
	return result, nil
}
