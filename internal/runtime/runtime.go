package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	goruntime "runtime"
	"strings"

	"github.com/user/helpline/internal/compile"
	"github.com/user/helpline/internal/dispatch"
	"github.com/user/helpline/internal/schema"
	"github.com/user/helpline/internal/ticket"
	"github.com/user/helpline/internal/types"
	"github.com/user/helpline/internal/workspace"
)

// Runtime owns the help-request pipeline: validate, scan, sample,
// compile, persist, transform, dispatch. Scanner and sampler failures
// degrade; persistence and dispatch failures abort the request; and
// every outcome is converted here into one human-readable response.
type Runtime struct {
	store      types.SessionStore
	dispatcher dispatch.Dispatcher
	compiler   *compile.Compiler
	rawPayload bool
}

// New creates a Runtime. When rawPayload is set, the validated request
// is submitted instead of the derived ticket.
func New(store types.SessionStore, dispatcher dispatch.Dispatcher, compiler *compile.Compiler, rawPayload bool) *Runtime {
	return &Runtime{
		store:      store,
		dispatcher: dispatcher,
		compiler:   compiler,
		rawPayload: rawPayload,
	}
}

// ProcessReport runs the full pipeline for one help request. It always
// returns a human-actionable message; failures are logged here with the
// session id and folded into the message rather than propagated.
func (rt *Runtime) ProcessReport(ctx context.Context, args json.RawMessage) string {
	req, err := schema.Validate(args)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			slog.Warn("help request rejected", "violations", len(verr.Violations))
			return validationMessage(verr)
		}
		slog.Warn("help request rejected", "error", err)
		return "Your help request could not be understood: " + err.Error()
	}

	var ws *types.WorkspaceState
	var samples map[string]types.FileSample
	root := ""
	if req.Workspace != nil {
		root = req.Workspace.RootPath
	}
	if root != "" {
		ws = workspace.Scan(root)
	}
	if len(req.FilesToSample) > 0 {
		samples = workspace.Sample(root, req.FilesToSample)
	}

	rec := rt.compiler.Compile(req, ws, samples, environmentDefaults())
	slog.Info("session compiled",
		"session_id", rec.SessionID,
		"messages", len(rec.Conversation.Messages),
		"workspace_scanned", ws != nil,
		"files_sampled", len(samples),
	)

	if err := rt.store.Put(ctx, rec.SessionID, rec); err != nil {
		slog.Error("persist session failed", "session_id", rec.SessionID, "error", err)
		return fmt.Sprintf(
			"Sorry, your help session could not be saved. Please try again. Your session id is %s.",
			rec.SessionID,
		)
	}

	tk := ticket.FromRecord(rec)
	var payload any = tk
	if rt.rawPayload {
		payload = req
	}

	result, err := rt.dispatcher.Submit(ctx, payload)
	if err != nil {
		slog.Error("ticket dispatch failed", "session_id", rec.SessionID, "error", err)
		return failureMessage(rec.SessionID, err)
	}

	slog.Info("ticket submitted",
		"session_id", rec.SessionID,
		"ticket_id", result.TicketID,
		"status", result.Status,
		"priority", tk.Priority,
	)
	return successMessage(rec.SessionID, tk, result)
}

func validationMessage(verr *schema.ValidationError) string {
	var b strings.Builder
	b.WriteString("Your help request could not be validated:\n")
	for _, v := range verr.Violations {
		fmt.Fprintf(&b, "- %s: %s\n", v.Field, v.Reason)
	}
	b.WriteString("Please correct these fields and submit again.")
	return b.String()
}

func successMessage(id types.SessionID, tk *types.Ticket, result *types.SubmitResult) string {
	var b strings.Builder
	b.WriteString("Your support ticket has been submitted. A human will take it from here.\n")
	fmt.Fprintf(&b, "Ticket ID: %s\n", result.TicketID)
	fmt.Fprintf(&b, "Status: %s\n", result.Status)
	fmt.Fprintf(&b, "Priority: %s\n", tk.Priority)
	if result.TicketURL != "" {
		fmt.Fprintf(&b, "URL: %s\n", result.TicketURL)
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "Service note: %s\n", result.Message)
	}
	fmt.Fprintf(&b, "Session id: %s", id)
	return b.String()
}

func failureMessage(id types.SessionID, err error) string {
	var b strings.Builder
	b.WriteString("Ticket submission failed. Please stop self-diagnosing: retry once, and if it fails again escalate to a human with the details below.\n")
	var apiErr *dispatch.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(&b, "Support service response: %s\n", apiErr.Error())
	} else {
		fmt.Fprintf(&b, "Error: %v\n", err)
	}
	fmt.Fprintf(&b, "Session id: %s", id)
	return b.String()
}

// environmentDefaults synthesizes environment info from the process
// itself, used when the caller supplied none.
func environmentDefaults() types.EnvironmentInfo {
	wd, _ := os.Getwd()
	return types.EnvironmentInfo{
		RuntimeVersion:   goruntime.Version(),
		Platform:         goruntime.GOOS,
		WorkingDirectory: wd,
	}
}
