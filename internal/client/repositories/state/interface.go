// Package state persists the handful of client-only values that survive a
// process restart: the last logged-in user record (session convenience, not
// a security boundary) and the broadcast fallback timestamp. Everything is
// one key/value table.
package state

import (
	"context"
)

// Well-known keys.
const (
	KeyLastUser       = "last_user"
	KeyTasksChangedAt = "tasks_changed_at"
)

type Repository interface {
	// Get returns the value for key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Clear wipes all persisted client state, e.g. on logout.
	Clear(ctx context.Context) error
}
