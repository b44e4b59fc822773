// Package ticket derives a support ticket from a canonical session
// record. Tickets are disposable: recomputed on every submission and
// never persisted.
package ticket

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/user/helpline/internal/types"
)

const (
	titleMaxChars = 30
	titleMinChars = 5
	descMinChars  = 10
	fallbackTitle = "Development help request"
	fallbackDesc  = "A developer requested help with an issue that lacked a detailed description."
)

// urgentKeywords escalate priority to urgent when found anywhere in the
// issue description, overriding error-based escalation.
var urgentKeywords = []string{"urgent", "critical"}

// FromRecord derives a Ticket from the session record. The result always
// satisfies the title and description minimum lengths regardless of how
// terse the issue description was.
func FromRecord(rec *types.SessionRecord) *types.Ticket {
	return &types.Ticket{
		Title:       title(rec.Issue.Description),
		Description: description(rec.Issue.Description),
		Priority:    priority(rec),
		Metadata:    metadata(rec),
	}
}

func title(desc string) string {
	t := desc
	if len(t) > titleMaxChars {
		t = t[:titleMaxChars] + "..."
	}
	if len(t) < titleMinChars {
		return fallbackTitle
	}
	return t
}

func description(desc string) string {
	if len(desc) < descMinChars {
		return fallbackDesc
	}
	return desc
}

func priority(rec *types.SessionRecord) types.Priority {
	lower := strings.ToLower(rec.Issue.Description)
	for _, kw := range urgentKeywords {
		if strings.Contains(lower, kw) {
			return types.PriorityUrgent
		}
	}
	if hasErrors(rec) {
		return types.PriorityHigh
	}
	return types.PriorityMedium
}

func hasErrors(rec *types.SessionRecord) bool {
	return rec.Diagnostics != nil && len(rec.Diagnostics.Errors) > 0
}

// metadata serializes every top-level record field to a string, plus
// convenience fields consumers read without parsing JSON.
func metadata(rec *types.SessionRecord) map[string]string {
	m := map[string]string{
		"conversation":       stringify(rec.Conversation),
		"issue":              stringify(rec.Issue),
		"workspace":          stringify(rec.Workspace),
		"contentSamples":     stringify(rec.ContentSamples),
		"diagnostics":        stringify(rec.Diagnostics),
		"solutionsAttempted": stringify(rec.SolutionsAttempted),
		"environment":        stringify(rec.Environment),
		"dependencies":       stringify(rec.Dependencies),
		"versionControl":     stringify(rec.VersionControl),
		"performance":        stringify(rec.Performance),
	}

	m["sessionId"] = string(rec.SessionID)
	m["timestamp"] = rec.Timestamp.Format("2006-01-02T15:04:05Z07:00")
	m["hasErrors"] = strconv.FormatBool(hasErrors(rec))
	m["conversationLength"] = strconv.Itoa(len(rec.Conversation.Messages))

	fileCount := 0
	if rec.Workspace != nil {
		fileCount = rec.Workspace.TotalFiles
	}
	m["workspaceFileCount"] = strconv.Itoa(fileCount)
	return m
}

// stringify JSON-encodes non-string values; strings pass through as-is.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
