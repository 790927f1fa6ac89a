// Package identity maps a locally known user record to the identifier the
// external data/auth system scopes rows by. Two identity systems run in
// parallel (local employee rows and the hosted auth's UUIDs), and older
// backend revisions stored the UUID under different column names, so
// resolution cascades: direct fields, then the live session, then an
// indirect employee-table lookup.
package identity

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/fosys/fosys-client/internal/client/baas"
	"github.com/fosys/fosys-client/internal/client/models"
	"github.com/fosys/fosys-client/internal/logging"
	"github.com/google/uuid"
)

// ErrNoExternalIdentity is returned when no resolution path produced a
// valid identifier. Callers must treat it as "cannot fetch user-scoped
// data" and render an empty state, not an error page.
var ErrNoExternalIdentity = errors.New("no external identity for user")

const employeeTable = "employee"

// Resolver resolves and memoizes the external identity for one session.
// The mapping is treated as immutable once resolved; Forget clears it on
// sign-out. A Resolver is safe for concurrent use.
type Resolver struct {
	store   baas.Store
	session baas.Session
	log     logging.Logger

	mu     sync.Mutex
	cached string
}

// NewResolver builds a resolver over the given store and session. Either
// collaborator may be nil; the corresponding resolution step is skipped.
func NewResolver(store baas.Store, session baas.Session, log logging.Logger) *Resolver {
	return &Resolver{store: store, session: session, log: log}
}

// Resolve returns the external identity for user. Candidate fields on the
// record are tried first, in fixed order, accepting only values that parse
// as UUIDs. Failing that, the authenticated session's subject is used; as a
// last resort, a numeric local id triggers an indirect employee-table
// lookup scanning the known column names.
func (r *Resolver) Resolve(ctx context.Context, user *models.User) (string, error) {
	r.mu.Lock()
	if r.cached != "" {
		id := r.cached
		r.mu.Unlock()
		return id, nil
	}
	r.mu.Unlock()

	id := r.resolve(ctx, user)
	if id == "" {
		return "", ErrNoExternalIdentity
	}

	r.mu.Lock()
	r.cached = id
	r.mu.Unlock()
	return id, nil
}

// Forget clears the memoized mapping, e.g. on sign-out.
func (r *Resolver) Forget() {
	r.mu.Lock()
	r.cached = ""
	r.mu.Unlock()
}

func (r *Resolver) resolve(ctx context.Context, user *models.User) string {
	if user != nil {
		for _, candidate := range user.ExternalIDCandidates() {
			if isUUID(candidate) {
				return candidate
			}
		}
	}

	if r.session != nil {
		if id, err := r.session.UserID(); err == nil && isUUID(id) {
			return id
		}
	}

	if user != nil && r.store != nil {
		if localID, ok := numericID(user.ID); ok {
			if id := r.lookupEmployee(ctx, localID); id != "" {
				return id
			}
		}
	}

	return ""
}

// lookupEmployee queries the employee table by numeric id and scans the
// fixed column list for a valid UUID.
func (r *Resolver) lookupEmployee(ctx context.Context, localID string) string {
	rows, err := r.store.SelectEq(ctx, employeeTable, "id", localID)
	if err != nil {
		r.log.Warn(ctx, "employee identity lookup failed", "id", localID, "err", err)
		return ""
	}
	if len(rows) == 0 {
		return ""
	}

	for _, column := range models.ExternalIDColumns {
		if v := rows[0].StringField(column); isUUID(v) {
			return v
		}
	}
	return ""
}

func isUUID(s string) bool {
	return s != "" && uuid.Validate(s) == nil
}

func numericID(id models.FlexID) (string, bool) {
	if id.IsZero() {
		return "", false
	}
	if _, err := strconv.ParseInt(id.String(), 10, 64); err != nil {
		return "", false
	}
	return id.String(), true
}
