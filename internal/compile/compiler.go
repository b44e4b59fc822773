// Package compile merges a validated help request with scan and sample
// results into one canonical session record. Compilation performs no I/O;
// with a fixed clock and id generator it is fully deterministic.
package compile

import (
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/user/helpline/internal/types"
)

// Compiler produces canonical session records. Now and NewID are
// injectable so tests can pin the generated identity.
type Compiler struct {
	Now   func() time.Time
	NewID func() types.SessionID

	tokenizer *tiktoken.Tiktoken
}

// New creates a Compiler using the real clock and UUID generation. The
// tokenizer is loaded eagerly; if the encoding is unavailable the
// compiler falls back to a character-based token estimate.
func New() *Compiler {
	c := &Compiler{
		Now:   time.Now,
		NewID: types.NewSessionID,
	}
	if enc, err := tiktoken.GetEncoding("cl100k_base"); err == nil {
		c.tokenizer = enc
	}
	return c
}

// Compile merges the validated request, the (nullable) workspace state,
// the (possibly empty) content samples, and the provided environment
// defaults into a canonical SessionRecord. Caller-supplied identity and
// environment win over generated values.
func (c *Compiler) Compile(
	req *types.HelpRequest,
	ws *types.WorkspaceState,
	samples map[string]types.FileSample,
	defaults types.EnvironmentInfo,
) *types.SessionRecord {
	rec := &types.SessionRecord{
		Conversation: req.Conversation,
		Issue:        req.Issue,
	}

	if req.SessionID != "" {
		rec.SessionID = types.SessionID(req.SessionID)
	} else {
		rec.SessionID = c.NewID()
	}
	if req.Timestamp != nil {
		rec.Timestamp = *req.Timestamp
	} else {
		rec.Timestamp = c.Now()
	}

	// A fresh scan always wins over caller-supplied workspace state.
	switch {
	case ws != nil:
		rec.Workspace = ws
	case req.Workspace != nil:
		rec.Workspace = req.Workspace
	}

	rec.ContentSamples = samples
	if rec.ContentSamples == nil {
		rec.ContentSamples = map[string]types.FileSample{}
	}

	rec.Diagnostics = req.Diagnostics
	if rec.Diagnostics == nil {
		rec.Diagnostics = &types.Diagnostics{
			Errors:   []types.ErrorDetail{},
			Warnings: []types.ErrorDetail{},
			Logs:     []types.LogEntry{},
		}
	}

	rec.SolutionsAttempted = req.SolutionsAttempted
	if rec.SolutionsAttempted == nil {
		rec.SolutionsAttempted = []types.SolutionAttempt{}
	}

	if req.Environment != nil {
		rec.Environment = *req.Environment
	} else {
		rec.Environment = defaults
	}

	rec.Dependencies = req.Dependencies
	if rec.Dependencies == nil {
		rec.Dependencies = []types.Dependency{}
	}
	rec.VersionControl = req.VersionControl

	rec.Performance = make(map[string]float64, len(req.Performance)+1)
	for k, val := range req.Performance {
		rec.Performance[k] = val
	}
	rec.Performance["conversationTokens"] = float64(c.conversationTokens(req.Conversation))

	return rec
}

// conversationTokens estimates the token count of the conversation. With
// no tokenizer available it approximates at four characters per token.
func (c *Compiler) conversationTokens(conv types.Conversation) int {
	total := 0
	for _, msg := range conv.Messages {
		if c.tokenizer != nil {
			total += len(c.tokenizer.Encode(msg.Content, nil, nil))
		} else {
			total += len(msg.Content) / 4
		}
	}
	return total
}
