package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/user/helpline/internal/compile"
	"github.com/user/helpline/internal/dispatch"
	"github.com/user/helpline/internal/state"
	"github.com/user/helpline/internal/types"
)

func testCompiler() *compile.Compiler {
	return &compile.Compiler{
		Now:   func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		NewID: func() types.SessionID { return "aaaaaaaa-0000-0000-0000-000000000001" },
	}
}

const minimalReport = `{
	"conversation": {"messages": [{"role": "user", "content": "build fails"}]},
	"issue": {"description": "Build fails with urgent error"}
}`

func TestProcessReportEndToEnd(t *testing.T) {
	store := state.NewFileStore(t.TempDir())
	rt := New(store, dispatch.NewSimulated(time.Millisecond), testCompiler(), false)

	msg := rt.ProcessReport(context.Background(), json.RawMessage(minimalReport))

	if !strings.Contains(msg, "Ticket ID: MOCK-") {
		t.Errorf("expected mock ticket id in response, got %q", msg)
	}
	if !strings.Contains(msg, "Status: mock_success") {
		t.Errorf("expected mock status in response, got %q", msg)
	}
	if !strings.Contains(msg, "Priority: urgent") {
		t.Errorf("expected urgent priority in response, got %q", msg)
	}

	// The session record was persisted under the generated id.
	rec, err := store.Get(context.Background(), "aaaaaaaa-0000-0000-0000-000000000001")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Issue.Description != "Build fails with urgent error" {
		t.Errorf("unexpected persisted issue %q", rec.Issue.Description)
	}
	if rec.Environment.Platform == "" {
		t.Error("expected synthesized environment in persisted record")
	}
}

func TestProcessReportValidationFailure(t *testing.T) {
	store := state.NewFileStore(t.TempDir())
	rt := New(store, dispatch.NewSimulated(time.Millisecond), testCompiler(), false)

	msg := rt.ProcessReport(context.Background(), json.RawMessage(`{"issue":{}}`))

	if !strings.Contains(msg, "could not be validated") {
		t.Errorf("expected validation message, got %q", msg)
	}
	if !strings.Contains(msg, "conversation") {
		t.Errorf("expected violated field named, got %q", msg)
	}

	// Nothing was persisted: validation fails before any I/O.
	_, err := store.Get(context.Background(), "aaaaaaaa-0000-0000-0000-000000000001")
	if err == nil {
		t.Error("expected no persisted session after validation failure")
	}
}

type failingDispatcher struct{ err error }

func (f *failingDispatcher) Submit(context.Context, any) (*types.SubmitResult, error) {
	return nil, f.err
}

func TestProcessReportDispatchFailureRelaysPayload(t *testing.T) {
	store := state.NewFileStore(t.TempDir())
	apiErr := &dispatch.APIError{
		StatusCode: 500,
		Body:       `{"error":"db down"}`,
		Details:    json.RawMessage(`{"error":"db down"}`),
	}
	rt := New(store, &failingDispatcher{err: apiErr}, testCompiler(), false)

	msg := rt.ProcessReport(context.Background(), json.RawMessage(minimalReport))

	if !strings.Contains(msg, "db down") {
		t.Errorf("expected remote payload relayed, got %q", msg)
	}
	if !strings.Contains(msg, "aaaaaaaa-0000-0000-0000-000000000001") {
		t.Errorf("expected session id in failure message, got %q", msg)
	}
	if !strings.Contains(msg, "escalate") {
		t.Errorf("expected escalation guidance, got %q", msg)
	}
}

type failingStore struct{}

func (f *failingStore) Put(context.Context, types.SessionID, *types.SessionRecord) error {
	return fmt.Errorf("disk full")
}

func (f *failingStore) Get(context.Context, types.SessionID) (*types.SessionRecord, error) {
	return nil, types.ErrNotFound
}

func TestProcessReportPersistenceFailure(t *testing.T) {
	rt := New(&failingStore{}, dispatch.NewSimulated(time.Millisecond), testCompiler(), false)

	msg := rt.ProcessReport(context.Background(), json.RawMessage(minimalReport))

	if !strings.Contains(msg, "could not be saved") {
		t.Errorf("expected generic persistence failure message, got %q", msg)
	}
	if !strings.Contains(msg, "aaaaaaaa-0000-0000-0000-000000000001") {
		t.Errorf("expected session id for retry, got %q", msg)
	}
	if strings.Contains(msg, "disk full") {
		t.Errorf("persistence details must not leak to the user, got %q", msg)
	}
}

type capturingDispatcher struct {
	payload any
}

func (c *capturingDispatcher) Submit(_ context.Context, payload any) (*types.SubmitResult, error) {
	c.payload = payload
	return &types.SubmitResult{TicketID: "T-1", Status: "success"}, nil
}

func TestProcessReportPayloadModes(t *testing.T) {
	store := state.NewFileStore(t.TempDir())

	d := &capturingDispatcher{}
	rt := New(store, d, testCompiler(), false)
	rt.ProcessReport(context.Background(), json.RawMessage(minimalReport))
	if _, ok := d.payload.(*types.Ticket); !ok {
		t.Errorf("expected ticket payload, got %T", d.payload)
	}

	d = &capturingDispatcher{}
	rt = New(store, d, testCompiler(), true)
	rt.ProcessReport(context.Background(), json.RawMessage(minimalReport))
	if _, ok := d.payload.(*types.HelpRequest); !ok {
		t.Errorf("expected raw request payload, got %T", d.payload)
	}
}
