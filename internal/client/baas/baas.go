// Package baas defines the generic data-and-events interface through which
// the client reaches its hosted backend-as-a-service, plus one HTTP/websocket
// implementation of it. The provider's SDK surface is deliberately not
// reproduced; the rest of the codebase depends only on the interfaces here.
package baas

import (
	"context"
	"errors"

	"github.com/fosys/fosys-client/internal/client/models"
)

var (
	// ErrNoSession is returned when a session-scoped operation runs before
	// a successful sign-in.
	ErrNoSession = errors.New("no authenticated session")

	// ErrUnavailable is returned when the service cannot be reached.
	ErrUnavailable = errors.New("baas unavailable")
)

// Row is one record returned by a table query. Column types are whatever
// the service's JSON encoding produced.
type Row map[string]any

// StringField returns the named column as a string, or "" when the column
// is absent or not a string.
func (r Row) StringField(name string) string {
	if v, ok := r[name].(string); ok {
		return v
	}
	return ""
}

// Store is row-level access to named tables, scoped by the credentials the
// implementation was built with.
type Store interface {
	// SelectEq returns the rows of table where column equals value.
	SelectEq(ctx context.Context, table, column, value string) ([]Row, error)

	// Insert adds one row to table. The row's owner field is the caller's
	// responsibility.
	Insert(ctx context.Context, table string, row any) error

	// UpdateEq applies patch to the rows of table where column equals value.
	UpdateEq(ctx context.Context, table, column, value string, patch any) error
}

// Session is the service's own authentication session, parallel to the
// backend API's. UserID is the identity the data store scopes rows by.
type Session interface {
	// SignIn establishes a session with the given credentials.
	SignIn(ctx context.Context, email, password string) error

	// UserID returns the current session's subject identifier, or
	// ErrNoSession when signed out.
	UserID() (string, error)

	// SignOut drops the session.
	SignOut()
}

// Subscription is a live per-table change feed. Close tears the feed down;
// it is safe to call more than once.
type Subscription interface {
	Close() error
}

// Subscriber opens realtime change subscriptions. The handler is invoked
// from the feed's read loop; an event the feed could not decode is delivered
// with a zero Op so the consumer can fall back to a full re-fetch.
type Subscriber interface {
	Subscribe(ctx context.Context, table string, fn func(models.ChangeEvent)) (Subscription, error)
}
