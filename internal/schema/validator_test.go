package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/user/helpline/internal/types"
)

func mustValidate(t *testing.T, raw string) *types.HelpRequest {
	t.Helper()
	req, err := Validate(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	return req
}

func TestValidateMinimalRequest(t *testing.T) {
	req := mustValidate(t, `{
		"conversation": {"messages": [{"role": "user", "content": "build fails"}]},
		"issue": {"description": "Build fails with urgent error"}
	}`)

	if len(req.Conversation.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(req.Conversation.Messages))
	}
	if req.Conversation.Messages[0].Role != types.RoleUser {
		t.Errorf("expected role user, got %q", req.Conversation.Messages[0].Role)
	}
	if req.Issue.Description != "Build fails with urgent error" {
		t.Errorf("unexpected description %q", req.Issue.Description)
	}

	// Optional sections normalize to empty values, never absence.
	if req.SolutionsAttempted == nil {
		t.Error("expected empty solutionsAttempted slice, got nil")
	}
	if req.Dependencies == nil {
		t.Error("expected empty dependencies slice, got nil")
	}
	if req.Performance == nil {
		t.Error("expected empty performance map, got nil")
	}
	if req.Workspace != nil || req.Diagnostics != nil || req.Environment != nil {
		t.Error("expected absent optional objects to stay nil pointers")
	}
}

func TestValidateMissingRequired(t *testing.T) {
	_, err := Validate(json.RawMessage(`{}`))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	fields := make(map[string]bool)
	for _, violation := range verr.Violations {
		fields[violation.Field] = true
	}
	if !fields["conversation"] {
		t.Error("expected violation for conversation")
	}
	if !fields["issue"] {
		t.Error("expected violation for issue")
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	_, err := Validate(json.RawMessage(`{
		"sessionId": "not-a-uuid",
		"conversation": {"messages": [{"role": "robot", "content": "hi"}]},
		"issue": {"description": "x"},
		"timestamp": "yesterday"
	}`))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(verr.Violations), verr.Violations)
	}
	if !strings.Contains(verr.Error(), "conversation.messages[0].role") {
		t.Errorf("error should name the bad role field: %s", verr.Error())
	}
}

func TestValidateEnums(t *testing.T) {
	cases := []struct {
		name string
		body string
		ok   bool
	}{
		{"valid tool role", `{"conversation":{"messages":[{"role":"tool","content":"ok"}]},"issue":{"description":"d"}}`, true},
		{"invalid role", `{"conversation":{"messages":[{"role":"admin","content":"ok"}]},"issue":{"description":"d"}}`, false},
		{"invalid log level", `{"conversation":{"messages":[{"role":"user","content":"ok"}]},"issue":{"description":"d"},"diagnostics":{"logs":[{"level":"trace","message":"m"}]}}`, false},
		{"valid log level", `{"conversation":{"messages":[{"role":"user","content":"ok"}]},"issue":{"description":"d"},"diagnostics":{"logs":[{"level":"warn","message":"m"}]}}`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(json.RawMessage(tc.body))
			if tc.ok && err != nil {
				t.Errorf("expected success, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateDirectoryTree(t *testing.T) {
	req := mustValidate(t, `{
		"conversation": {"messages": [{"role": "user", "content": "x"}]},
		"issue": {"description": "broken"},
		"workspace": {
			"rootPath": "/tmp/proj",
			"structure": {"main.go": null, "internal": {"app.go": null, "sub": {"deep.go": null}}}
		}
	}`)

	if req.Workspace == nil {
		t.Fatal("expected workspace")
	}
	tree := req.Workspace.Structure
	if tree["main.go"] != nil {
		t.Error("main.go should be a file leaf")
	}
	sub := tree["internal"]
	if sub == nil {
		t.Fatal("internal should be a subtree")
	}
	if _, ok := sub["app.go"]; !ok {
		t.Error("expected internal/app.go in tree")
	}
	if sub["sub"]["deep.go"] != nil {
		t.Error("deep.go should be a file leaf")
	}
}

func TestValidateDirectoryTreeDepthGuard(t *testing.T) {
	// Build a tree nested past the guard.
	depth := maxTreeDepth + 2
	inner := `null`
	for i := 0; i < depth; i++ {
		inner = `{"d":` + inner + `}`
	}
	body := `{
		"conversation": {"messages": [{"role": "user", "content": "x"}]},
		"issue": {"description": "broken"},
		"workspace": {"structure": ` + inner + `}
	}`

	_, err := Validate(json.RawMessage(body))
	if err == nil {
		t.Fatal("expected depth violation")
	}
	if !strings.Contains(err.Error(), "nesting depth") {
		t.Errorf("expected nesting depth violation, got %v", err)
	}
}

func TestValidateNonObjectInput(t *testing.T) {
	for _, raw := range []string{`null`, `[1,2]`, `"hello"`, `not json`} {
		if _, err := Validate(json.RawMessage(raw)); err == nil {
			t.Errorf("expected error for input %s", raw)
		}
	}
}

func TestValidateEmptyDescriptionAllowed(t *testing.T) {
	// Length constraints belong to the ticket transformer, not the validator.
	req := mustValidate(t, `{
		"conversation": {"messages": [{"role": "user", "content": "x"}]},
		"issue": {"description": ""}
	}`)
	if req.Issue.Description != "" {
		t.Errorf("expected empty description to pass through, got %q", req.Issue.Description)
	}
}
