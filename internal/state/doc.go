// Package state provides session-record storage implementations.
package state

import "github.com/user/helpline/internal/types"

// Compile-time interface compliance checks.
var _ types.SessionStore = (*FileStore)(nil)
var _ types.SessionStore = (*RedisStore)(nil)
