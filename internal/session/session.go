// Package session is a small scoped key-value store backing the login
// session and the per-user one-time seen flags.
package session

import (
	"context"
	"fmt"
)

const (
	ScopeSession   = "session"
	ScopeSeenFlags = "seen"
)

// Store persists opaque values under a (scope, key) pair. Get returns
// nil with no error when the key is absent.
type Store interface {
	Put(ctx context.Context, scope, key string, value []byte) error
	Get(ctx context.Context, scope, key string) ([]byte, error)
	Delete(ctx context.Context, scope, key string) error
}

// SeenFlagKey builds the key for a one-time per-user, per-period marker
// such as "the monthly summary was already shown".
func SeenFlagKey(feature, period, userID string) string {
	return fmt.Sprintf("%s:%s:%s", feature, period, userID)
}
