// Package tools exposes the help-request pipeline and session lookup as
// host-invocable tools.
package tools

import (
	"context"
	"encoding/json"

	"github.com/user/helpline/internal/runtime"
)

// ReportIssue captures the current development context and submits a
// support ticket. It is the primary tool of the service.
type ReportIssue struct {
	rt *runtime.Runtime
}

// NewReportIssue creates the report_issue tool backed by the given runtime.
func NewReportIssue(rt *runtime.Runtime) *ReportIssue {
	return &ReportIssue{rt: rt}
}

func (r *ReportIssue) Name() string { return "report_issue" }
func (r *ReportIssue) Description() string {
	return "Capture the current development context and submit a support ticket to a human"
}

func (r *ReportIssue) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"sessionId": {"type": "string", "description": "UUID of an existing session, omit to create one"},
			"timestamp": {"type": "string", "description": "RFC 3339 timestamp, omit to use the current time"},
			"conversation": {
				"type": "object",
				"properties": {
					"messages": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {
								"role": {"type": "string", "enum": ["system", "user", "assistant", "tool"]},
								"content": {"type": "string"},
								"timestamp": {"type": "string"}
							},
							"required": ["role", "content"]
						}
					}
				},
				"required": ["messages"]
			},
			"issue": {
				"type": "object",
				"properties": {
					"description": {"type": "string"},
					"category": {"type": "string"},
					"expectedBehavior": {"type": "string"},
					"actualBehavior": {"type": "string"}
				},
				"required": ["description"]
			},
			"workspace": {
				"type": "object",
				"properties": {
					"rootPath": {"type": "string", "description": "workspace root to scan"},
					"structure": {"type": "object", "description": "recursive map of entry name to null (file) or a nested object (directory)"}
				}
			},
			"filesToSample": {"type": "array", "items": {"type": "string"}, "description": "workspace-relative paths to include content for (first 5 used)"},
			"diagnostics": {
				"type": "object",
				"properties": {
					"errors": {"type": "array"},
					"warnings": {"type": "array"},
					"logs": {"type": "array"}
				}
			},
			"solutionsAttempted": {"type": "array"},
			"environment": {"type": "object"},
			"dependencies": {"type": "array"},
			"versionControl": {"type": "object"},
			"performance": {"type": "object"}
		},
		"required": ["conversation", "issue"]
	}`)
}

// Execute runs the pipeline. The returned text is always a complete
// human-readable outcome; pipeline failures are folded into it rather
// than returned as errors.
func (r *ReportIssue) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	return r.rt.ProcessReport(ctx, args), nil
}
