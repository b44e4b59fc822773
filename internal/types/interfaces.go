// internal/types/interfaces.go
package types

import (
	"context"
	"errors"
)

// ErrNotFound is returned by SessionStore.Get when no record exists for
// the given id. I/O failures are returned as distinct errors.
var ErrNotFound = errors.New("session not found")

// SessionStore persists one canonical record per session. Put overwrites
// any existing record for the same id; concurrent writers to distinct ids
// must not interfere.
type SessionStore interface {
	Put(ctx context.Context, id SessionID, record *SessionRecord) error
	Get(ctx context.Context, id SessionID) (*SessionRecord, error)
}
