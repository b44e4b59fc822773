// internal/types/models.go
package types

import (
	"time"
)

// Role is the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Priority is the urgency level of a derived ticket.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// LogLevel classifies a captured log entry.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ConversationMessage is one message in the chronological conversation history.
type ConversationMessage struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type Conversation struct {
	Messages []ConversationMessage `json:"messages"`
}

// Issue describes the problem the user is asking for help with.
type Issue struct {
	Description      string `json:"description"`
	Category         string `json:"category,omitempty"`
	ExpectedBehavior string `json:"expectedBehavior,omitempty"`
	ActualBehavior   string `json:"actualBehavior,omitempty"`
}

// FileDetail describes one file in the workspace, path relative to the root.
type FileDetail struct {
	Path         string     `json:"path"`
	Size         int64      `json:"size"`
	Lines        int        `json:"lines,omitempty"`
	Hash         string     `json:"hash,omitempty"`
	Diff         string     `json:"diff,omitempty"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

// DirectoryTree maps an entry name to nil for a file leaf or to a nested
// tree for a subdirectory. The depth of the value is unbounded by the type;
// the scanner and validator enforce their own depth limits.
type DirectoryTree map[string]DirectoryTree

// WorkspaceState captures the shape of the workspace at report time.
// TotalFiles and RecentFiles are derived by the scanner and overwrite any
// caller-supplied values whenever a scan is performed.
type WorkspaceState struct {
	RootPath    string         `json:"rootPath"`
	Files       []FileDetail   `json:"files"`
	Structure   DirectoryTree  `json:"structure"`
	FileTypes   map[string]int `json:"fileTypes,omitempty"`
	TotalFiles  int            `json:"totalFiles"`
	RecentFiles []string       `json:"recentFiles,omitempty"`
}

// ErrorDetail is one captured error or warning.
type ErrorDetail struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
	Code    string `json:"code,omitempty"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

type LogEntry struct {
	Level     LogLevel   `json:"level"`
	Message   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type Diagnostics struct {
	Errors   []ErrorDetail `json:"errors"`
	Warnings []ErrorDetail `json:"warnings"`
	Logs     []LogEntry    `json:"logs"`
}

// SolutionAttempt records one fix the user already tried.
type SolutionAttempt struct {
	Description     string        `json:"description"`
	Steps           []string      `json:"steps,omitempty"`
	Success         bool          `json:"success"`
	ResultingErrors []ErrorDetail `json:"resultingErrors,omitempty"`
	Timestamp       *time.Time    `json:"timestamp,omitempty"`
}

type EnvironmentInfo struct {
	RuntimeVersion   string            `json:"runtimeVersion"`
	Platform         string            `json:"platform"`
	WorkingDirectory string            `json:"workingDirectory"`
	EnvVars          map[string]string `json:"envVars,omitempty"`
}

type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type VersionControl struct {
	Branch       string   `json:"branch,omitempty"`
	Commit       string   `json:"commit,omitempty"`
	IsDirty      bool     `json:"isDirty,omitempty"`
	ChangedFiles []string `json:"changedFiles,omitempty"`
}

// FileSample is the result of sampling one file's content. Exactly one of
// Content, Note, or Error is meaningful: Note is set when the file was too
// large to sample, Error when the read failed.
type FileSample struct {
	Size    int64  `json:"size,omitempty"`
	Lines   int    `json:"lines,omitempty"`
	Content string `json:"content,omitempty"`
	Note    string `json:"note,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HelpRequest is the validated, normalized tool input. Every optional
// section is present with an empty value after validation, never absent.
type HelpRequest struct {
	SessionID          string             `json:"sessionId,omitempty"`
	Timestamp          *time.Time         `json:"timestamp,omitempty"`
	Conversation       Conversation       `json:"conversation"`
	Issue              Issue              `json:"issue"`
	Workspace          *WorkspaceState    `json:"workspace,omitempty"`
	FilesToSample      []string           `json:"filesToSample,omitempty"`
	Diagnostics        *Diagnostics       `json:"diagnostics,omitempty"`
	SolutionsAttempted []SolutionAttempt  `json:"solutionsAttempted"`
	Environment        *EnvironmentInfo   `json:"environment,omitempty"`
	Dependencies       []Dependency       `json:"dependencies"`
	VersionControl     *VersionControl    `json:"versionControl,omitempty"`
	Performance        map[string]float64 `json:"performance"`
}

// SessionRecord is the canonical compiled record, keyed by SessionID.
// Diagnostics, SolutionsAttempted, Dependencies, ContentSamples and
// Performance are never nil after compilation.
type SessionRecord struct {
	SessionID          SessionID             `json:"sessionId"`
	Timestamp          time.Time             `json:"timestamp"`
	Conversation       Conversation          `json:"conversation"`
	Issue              Issue                 `json:"issue"`
	Workspace          *WorkspaceState       `json:"workspace"`
	ContentSamples     map[string]FileSample `json:"contentSamples"`
	Diagnostics        *Diagnostics          `json:"diagnostics"`
	SolutionsAttempted []SolutionAttempt     `json:"solutionsAttempted"`
	Environment        EnvironmentInfo       `json:"environment"`
	Dependencies       []Dependency          `json:"dependencies"`
	VersionControl     *VersionControl       `json:"versionControl"`
	Performance        map[string]float64    `json:"performance"`
}

// Ticket is derived from a SessionRecord on every submission and never
// persisted. Title is always at least 5 characters and Description at
// least 10, regardless of how terse the issue description was.
type Ticket struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Priority    Priority          `json:"priority"`
	Metadata    map[string]string `json:"metadata"`
}

// SubmitResult is the normalized outcome of one dispatch attempt.
type SubmitResult struct {
	TicketID  string `json:"ticketId"`
	Status    string `json:"status"`
	Priority  string `json:"priority,omitempty"`
	TicketURL string `json:"ticketUrl,omitempty"`
	Message   string `json:"message,omitempty"`
}
