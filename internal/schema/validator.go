// Package schema validates and normalizes raw help-request input before
// any I/O happens. Validation collects every violation rather than
// stopping at the first, and every optional field normalizes to an empty
// value so downstream code never branches on absence.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/user/helpline/internal/types"
)

// maxTreeDepth bounds recursive directory-structure validation. The
// DirectoryTree type itself is unbounded; this guard keeps a hostile
// payload from exhausting the stack.
const maxTreeDepth = 64

// Violation names one field that failed validation and why.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every violation found in one pass.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Reason
	}
	return "invalid help request: " + strings.Join(parts, "; ")
}

// Validate parses raw JSON tool arguments into a normalized HelpRequest,
// or returns a *ValidationError listing all violated fields.
func Validate(raw json.RawMessage) (*types.HelpRequest, error) {
	var top map[string]any
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, &ValidationError{Violations: []Violation{
			{Field: "(root)", Reason: "not a JSON object: " + err.Error()},
		}}
	}
	if top == nil {
		return nil, &ValidationError{Violations: []Violation{
			{Field: "(root)", Reason: "must be a JSON object"},
		}}
	}

	v := &validator{}
	req := &types.HelpRequest{
		SolutionsAttempted: []types.SolutionAttempt{},
		Dependencies:       []types.Dependency{},
		Performance:        map[string]float64{},
	}

	if s, ok := v.optString(top, "sessionId"); ok && s != "" {
		if _, err := uuid.Parse(s); err != nil {
			v.addf("sessionId", "not a valid UUID")
		} else {
			req.SessionID = s
		}
	}
	req.Timestamp = v.optTime(top, "timestamp")

	req.Conversation = v.conversation(top)
	req.Issue = v.issue(top)
	req.Workspace = v.workspace(top)
	req.FilesToSample = v.stringSlice(top, "filesToSample")
	req.Diagnostics = v.diagnostics(top)
	if attempts := v.solutionAttempts(top); attempts != nil {
		req.SolutionsAttempted = attempts
	}
	req.Environment = v.environment(top)
	if deps := v.dependencies(top); deps != nil {
		req.Dependencies = deps
	}
	req.VersionControl = v.versionControl(top)
	if perf := v.performance(top); perf != nil {
		req.Performance = perf
	}

	if len(v.violations) > 0 {
		return nil, &ValidationError{Violations: v.violations}
	}
	return req, nil
}

type validator struct {
	violations []Violation
}

func (v *validator) addf(field, format string, args ...any) {
	v.violations = append(v.violations, Violation{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	})
}

func (v *validator) conversation(top map[string]any) types.Conversation {
	raw, ok := top["conversation"]
	if !ok {
		v.addf("conversation", "required")
		return types.Conversation{}
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		v.addf("conversation", "must be an object")
		return types.Conversation{}
	}
	msgsRaw, ok := obj["messages"].([]any)
	if !ok || len(msgsRaw) == 0 {
		v.addf("conversation.messages", "must be a non-empty array")
		return types.Conversation{}
	}

	msgs := make([]types.ConversationMessage, 0, len(msgsRaw))
	for i, mr := range msgsRaw {
		field := fmt.Sprintf("conversation.messages[%d]", i)
		m, ok := mr.(map[string]any)
		if !ok {
			v.addf(field, "must be an object")
			continue
		}
		msg := types.ConversationMessage{}
		role, ok := m["role"].(string)
		if !ok {
			v.addf(field+".role", "required string")
		} else if !validRole(role) {
			v.addf(field+".role", "must be one of system, user, assistant, tool")
		} else {
			msg.Role = types.Role(role)
		}
		content, ok := m["content"].(string)
		if !ok {
			v.addf(field+".content", "required string")
		}
		msg.Content = content
		msg.Timestamp = v.optTime(m, field+".timestamp", "timestamp")
		msgs = append(msgs, msg)
	}
	return types.Conversation{Messages: msgs}
}

func (v *validator) issue(top map[string]any) types.Issue {
	raw, ok := top["issue"]
	if !ok {
		v.addf("issue", "required")
		return types.Issue{}
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		v.addf("issue", "must be an object")
		return types.Issue{}
	}
	issue := types.Issue{}
	desc, ok := obj["description"].(string)
	if !ok {
		v.addf("issue.description", "required string")
	}
	issue.Description = desc
	issue.Category, _ = v.optString(obj, "issue.category", "category")
	issue.ExpectedBehavior, _ = v.optString(obj, "issue.expectedBehavior", "expectedBehavior")
	issue.ActualBehavior, _ = v.optString(obj, "issue.actualBehavior", "actualBehavior")
	return issue
}

func (v *validator) workspace(top map[string]any) *types.WorkspaceState {
	obj, ok := v.optObject(top, "workspace")
	if !ok {
		return nil
	}
	ws := &types.WorkspaceState{Files: []types.FileDetail{}}
	ws.RootPath, _ = v.optString(obj, "workspace.rootPath", "rootPath")

	if filesRaw, ok := obj["files"]; ok {
		arr, ok := filesRaw.([]any)
		if !ok {
			v.addf("workspace.files", "must be an array")
		} else {
			for i, fr := range arr {
				field := fmt.Sprintf("workspace.files[%d]", i)
				f, ok := fr.(map[string]any)
				if !ok {
					v.addf(field, "must be an object")
					continue
				}
				detail := types.FileDetail{}
				path, ok := f["path"].(string)
				if !ok || path == "" {
					v.addf(field+".path", "required string")
				}
				detail.Path = path
				detail.Size = int64(v.optNumber(f, field+".size", "size"))
				detail.Lines = int(v.optNumber(f, field+".lines", "lines"))
				detail.Hash, _ = v.optString(f, field+".hash", "hash")
				detail.Diff, _ = v.optString(f, field+".diff", "diff")
				detail.LastModified = v.optTime(f, field+".lastModified", "lastModified")
				ws.Files = append(ws.Files, detail)
			}
		}
	}

	if structRaw, ok := obj["structure"]; ok {
		ws.Structure = v.tree("workspace.structure", structRaw, 0)
	}
	ws.TotalFiles = int(v.optNumber(obj, "workspace.totalFiles", "totalFiles"))
	ws.RecentFiles = v.stringSlice(obj, "recentFiles", "workspace.recentFiles")
	if ftRaw, ok := obj["fileTypes"]; ok {
		ft, ok := ftRaw.(map[string]any)
		if !ok {
			v.addf("workspace.fileTypes", "must be an object")
		} else {
			ws.FileTypes = make(map[string]int, len(ft))
			for ext, n := range ft {
				count, ok := n.(float64)
				if !ok {
					v.addf("workspace.fileTypes."+ext, "must be a number")
					continue
				}
				ws.FileTypes[ext] = int(count)
			}
		}
	}
	return ws
}

// tree validates the recursive name -> null|subtree directory shape.
func (v *validator) tree(field string, raw any, depth int) types.DirectoryTree {
	if depth > maxTreeDepth {
		v.addf(field, "exceeds maximum nesting depth %d", maxTreeDepth)
		return nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		v.addf(field, "must be an object")
		return nil
	}
	out := make(types.DirectoryTree, len(obj))
	for name, child := range obj {
		if child == nil {
			out[name] = nil // file leaf
			continue
		}
		out[name] = v.tree(field+"."+name, child, depth+1)
	}
	return out
}

func (v *validator) diagnostics(top map[string]any) *types.Diagnostics {
	obj, ok := v.optObject(top, "diagnostics")
	if !ok {
		return nil
	}
	d := &types.Diagnostics{
		Errors:   v.errorDetails(obj, "errors", "diagnostics.errors"),
		Warnings: v.errorDetails(obj, "warnings", "diagnostics.warnings"),
		Logs:     []types.LogEntry{},
	}
	if logsRaw, ok := obj["logs"]; ok {
		arr, ok := logsRaw.([]any)
		if !ok {
			v.addf("diagnostics.logs", "must be an array")
		} else {
			for i, lr := range arr {
				field := fmt.Sprintf("diagnostics.logs[%d]", i)
				l, ok := lr.(map[string]any)
				if !ok {
					v.addf(field, "must be an object")
					continue
				}
				entry := types.LogEntry{}
				level, ok := l["level"].(string)
				if !ok {
					v.addf(field+".level", "required string")
				} else if !validLogLevel(level) {
					v.addf(field+".level", "must be one of debug, info, warn, error")
				} else {
					entry.Level = types.LogLevel(level)
				}
				entry.Message, _ = v.optString(l, field+".message", "message")
				entry.Timestamp = v.optTime(l, field+".timestamp", "timestamp")
				d.Logs = append(d.Logs, entry)
			}
		}
	}
	return d
}

func (v *validator) errorDetails(obj map[string]any, key, field string) []types.ErrorDetail {
	out := []types.ErrorDetail{}
	raw, ok := obj[key]
	if !ok {
		return out
	}
	arr, ok := raw.([]any)
	if !ok {
		v.addf(field, "must be an array")
		return out
	}
	for i, er := range arr {
		item := fmt.Sprintf("%s[%d]", field, i)
		e, ok := er.(map[string]any)
		if !ok {
			v.addf(item, "must be an object")
			continue
		}
		detail := types.ErrorDetail{}
		msg, ok := e["message"].(string)
		if !ok {
			v.addf(item+".message", "required string")
		}
		detail.Message = msg
		detail.Stack, _ = v.optString(e, item+".stack", "stack")
		detail.Code, _ = v.optString(e, item+".code", "code")
		detail.File, _ = v.optString(e, item+".file", "file")
		detail.Line = int(v.optNumber(e, item+".line", "line"))
		out = append(out, detail)
	}
	return out
}

func (v *validator) solutionAttempts(top map[string]any) []types.SolutionAttempt {
	raw, ok := top["solutionsAttempted"]
	if !ok {
		return nil
	}
	arr, ok := raw.([]any)
	if !ok {
		v.addf("solutionsAttempted", "must be an array")
		return nil
	}
	out := make([]types.SolutionAttempt, 0, len(arr))
	for i, ar := range arr {
		field := fmt.Sprintf("solutionsAttempted[%d]", i)
		a, ok := ar.(map[string]any)
		if !ok {
			v.addf(field, "must be an object")
			continue
		}
		attempt := types.SolutionAttempt{}
		desc, ok := a["description"].(string)
		if !ok || desc == "" {
			v.addf(field+".description", "required string")
		}
		attempt.Description = desc
		attempt.Steps = v.stringSlice(a, "steps", field+".steps")
		if successRaw, ok := a["success"]; ok {
			success, ok := successRaw.(bool)
			if !ok {
				v.addf(field+".success", "must be a boolean")
			}
			attempt.Success = success
		}
		attempt.ResultingErrors = v.errorDetails(a, "resultingErrors", field+".resultingErrors")
		attempt.Timestamp = v.optTime(a, field+".timestamp", "timestamp")
		out = append(out, attempt)
	}
	return out
}

func (v *validator) environment(top map[string]any) *types.EnvironmentInfo {
	obj, ok := v.optObject(top, "environment")
	if !ok {
		return nil
	}
	env := &types.EnvironmentInfo{}
	env.RuntimeVersion, _ = v.optString(obj, "environment.runtimeVersion", "runtimeVersion")
	env.Platform, _ = v.optString(obj, "environment.platform", "platform")
	env.WorkingDirectory, _ = v.optString(obj, "environment.workingDirectory", "workingDirectory")
	if varsRaw, ok := obj["envVars"]; ok {
		vars, ok := varsRaw.(map[string]any)
		if !ok {
			v.addf("environment.envVars", "must be an object")
		} else {
			env.EnvVars = make(map[string]string, len(vars))
			for name, val := range vars {
				s, ok := val.(string)
				if !ok {
					v.addf("environment.envVars."+name, "must be a string")
					continue
				}
				env.EnvVars[name] = s
			}
		}
	}
	return env
}

func (v *validator) dependencies(top map[string]any) []types.Dependency {
	raw, ok := top["dependencies"]
	if !ok {
		return nil
	}
	arr, ok := raw.([]any)
	if !ok {
		v.addf("dependencies", "must be an array")
		return nil
	}
	out := make([]types.Dependency, 0, len(arr))
	for i, dr := range arr {
		field := fmt.Sprintf("dependencies[%d]", i)
		d, ok := dr.(map[string]any)
		if !ok {
			v.addf(field, "must be an object")
			continue
		}
		dep := types.Dependency{}
		dep.Name, _ = v.optString(d, field+".name", "name")
		dep.Version, _ = v.optString(d, field+".version", "version")
		if dep.Name == "" {
			v.addf(field+".name", "required string")
			continue
		}
		out = append(out, dep)
	}
	return out
}

func (v *validator) versionControl(top map[string]any) *types.VersionControl {
	obj, ok := v.optObject(top, "versionControl")
	if !ok {
		return nil
	}
	vc := &types.VersionControl{}
	vc.Branch, _ = v.optString(obj, "versionControl.branch", "branch")
	vc.Commit, _ = v.optString(obj, "versionControl.commit", "commit")
	if dirtyRaw, ok := obj["isDirty"]; ok {
		dirty, ok := dirtyRaw.(bool)
		if !ok {
			v.addf("versionControl.isDirty", "must be a boolean")
		}
		vc.IsDirty = dirty
	}
	vc.ChangedFiles = v.stringSlice(obj, "changedFiles", "versionControl.changedFiles")
	return vc
}

func (v *validator) performance(top map[string]any) map[string]float64 {
	raw, ok := top["performance"]
	if !ok {
		return nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		v.addf("performance", "must be an object")
		return nil
	}
	out := make(map[string]float64, len(obj))
	for name, val := range obj {
		n, ok := val.(float64)
		if !ok {
			v.addf("performance."+name, "must be a number")
			continue
		}
		out[name] = n
	}
	return out
}

// optObject returns top[key] as an object. A present non-object value is
// a violation; an absent key is not.
func (v *validator) optObject(obj map[string]any, key string) (map[string]any, bool) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, false
	}
	m, ok := raw.(map[string]any)
	if !ok {
		v.addf(key, "must be an object")
		return nil, false
	}
	return m, true
}

// optString reads an optional string field. The optional trailing key
// argument lets callers report a full field path while reading a short
// map key (optString(m, "workspace.rootPath", "rootPath")).
func (v *validator) optString(obj map[string]any, field string, key ...string) (string, bool) {
	k := field
	if len(key) > 0 {
		k = key[0]
	}
	raw, ok := obj[k]
	if !ok || raw == nil {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		v.addf(field, "must be a string")
		return "", false
	}
	return s, true
}

func (v *validator) optNumber(obj map[string]any, field string, key ...string) float64 {
	k := field
	if len(key) > 0 {
		k = key[0]
	}
	raw, ok := obj[k]
	if !ok || raw == nil {
		return 0
	}
	n, ok := raw.(float64)
	if !ok {
		v.addf(field, "must be a number")
		return 0
	}
	return n
}

func (v *validator) optTime(obj map[string]any, field string, key ...string) *time.Time {
	s, ok := v.optString(obj, field, key...)
	if !ok || s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		v.addf(field, "must be an RFC 3339 timestamp")
		return nil
	}
	return &t
}

func (v *validator) stringSlice(obj map[string]any, key string, field ...string) []string {
	f := key
	if len(field) > 0 {
		f = field[0]
	}
	raw, ok := obj[key]
	if !ok {
		return nil
	}
	arr, ok := raw.([]any)
	if !ok {
		v.addf(f, "must be an array of strings")
		return nil
	}
	out := make([]string, 0, len(arr))
	for i, sr := range arr {
		s, ok := sr.(string)
		if !ok {
			v.addf(fmt.Sprintf("%s[%d]", f, i), "must be a string")
			continue
		}
		out = append(out, s)
	}
	return out
}

func validRole(s string) bool {
	switch types.Role(s) {
	case types.RoleSystem, types.RoleUser, types.RoleAssistant, types.RoleTool:
		return true
	}
	return false
}

func validLogLevel(s string) bool {
	switch types.LogLevel(s) {
	case types.LogLevelDebug, types.LogLevelInfo, types.LogLevelWarn, types.LogLevelError:
		return true
	}
	return false
}
