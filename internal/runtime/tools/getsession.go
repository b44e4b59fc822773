// internal/runtime/tools/getsession.go
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/user/helpline/internal/types"
)

// GetSession looks up a previously persisted session record by id.
type GetSession struct {
	store types.SessionStore
}

// NewGetSession creates the get_session tool backed by the given store.
func NewGetSession(store types.SessionStore) *GetSession {
	return &GetSession{store: store}
}

func (g *GetSession) Name() string { return "get_session" }
func (g *GetSession) Description() string {
	return "Retrieve a previously captured help session by its session id"
}

func (g *GetSession) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"sessionId": {"type": "string", "description": "The session id to look up"}
		},
		"required": ["sessionId"]
	}`)
}

func (g *GetSession) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var params struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return "", fmt.Errorf("parse args: %w", err)
	}
	if params.SessionID == "" {
		return "", fmt.Errorf("sessionId is required")
	}

	record, err := g.store.Get(ctx, types.SessionID(params.SessionID))
	if errors.Is(err, types.ErrNotFound) {
		return fmt.Sprintf("No session found with id %s.", params.SessionID), nil
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render session: %w", err)
	}
	return string(data), nil
}
