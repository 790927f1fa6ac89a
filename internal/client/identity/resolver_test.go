package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/fosys/fosys-client/internal/client/baas"
	"github.com/fosys/fosys-client/internal/client/models"
	"github.com/fosys/fosys-client/internal/logging"
	"github.com/stretchr/testify/require"
)

const (
	uuidA = "5f0b2a52-9c1e-4a8d-b1c2-3d4e5f607182"
	uuidB = "0c9d8e7f-6a5b-4c3d-2e1f-aabbccddeeff"
)

// ---- fakes ----

type fakeStore struct {
	rows    []baas.Row
	err     error
	selects int

	lastTable  string
	lastColumn string
	lastValue  string
}

func (f *fakeStore) SelectEq(_ context.Context, table, column, value string) ([]baas.Row, error) {
	f.selects++
	f.lastTable, f.lastColumn, f.lastValue = table, column, value
	return f.rows, f.err
}

func (f *fakeStore) Insert(context.Context, string, any) error { return nil }

func (f *fakeStore) UpdateEq(context.Context, string, string, string, any) error { return nil }

type fakeSession struct {
	id  string
	err error
}

func (f *fakeSession) SignIn(context.Context, string, string) error { return nil }
func (f *fakeSession) UserID() (string, error)                      { return f.id, f.err }
func (f *fakeSession) SignOut()                                     {}

func newResolver(store baas.Store, session baas.Session) *Resolver {
	return NewResolver(store, session, logging.NewDiscard())
}

// ---- tests ----

func TestResolve_DirectFieldWinsWithoutLookup(t *testing.T) {
	store := &fakeStore{}
	user := &models.User{ID: "42", SupabaseUserID: uuidA}

	id, err := newResolver(store, &fakeSession{err: baas.ErrNoSession}).Resolve(context.Background(), user)
	require.NoError(t, err)
	require.Equal(t, uuidA, id)
	require.Zero(t, store.selects, "direct field must not trigger the indirect lookup")
}

func TestResolve_CandidateOrderIsFixed(t *testing.T) {
	user := &models.User{ID: "42", SupabaseUserID: uuidA, AuthUserID: uuidB}
	id, err := newResolver(&fakeStore{}, nil).Resolve(context.Background(), user)
	require.NoError(t, err)
	require.Equal(t, uuidA, id)
}

func TestResolve_InvalidCandidateIsSkipped(t *testing.T) {
	// Hyphen-containing but not a UUID: rejected, later candidate wins.
	user := &models.User{ID: "42", SupabaseUserID: "abc-123", AuthUserID: uuidB}
	id, err := newResolver(&fakeStore{}, nil).Resolve(context.Background(), user)
	require.NoError(t, err)
	require.Equal(t, uuidB, id)
}

func TestResolve_SessionSubjectBeforeIndirectLookup(t *testing.T) {
	store := &fakeStore{}
	user := &models.User{ID: "42"}

	id, err := newResolver(store, &fakeSession{id: uuidA}).Resolve(context.Background(), user)
	require.NoError(t, err)
	require.Equal(t, uuidA, id)
	require.Zero(t, store.selects)
}

func TestResolve_IndirectLookupScansColumns(t *testing.T) {
	store := &fakeStore{rows: []baas.Row{{
		"id":           float64(42),
		"supabase_id":  "not-a-uuid",
		"auth_user_id": uuidB,
	}}}
	user := &models.User{ID: "42"}

	id, err := newResolver(store, &fakeSession{err: baas.ErrNoSession}).Resolve(context.Background(), user)
	require.NoError(t, err)
	require.Equal(t, uuidB, id)
	require.Equal(t, "employee", store.lastTable)
	require.Equal(t, "id", store.lastColumn)
	require.Equal(t, "42", store.lastValue)
}

func TestResolve_NonNumericLocalIDSkipsLookup(t *testing.T) {
	store := &fakeStore{rows: []baas.Row{{"auth_user_id": uuidB}}}
	user := &models.User{ID: "not-numeric"}

	_, err := newResolver(store, &fakeSession{err: baas.ErrNoSession}).Resolve(context.Background(), user)
	require.ErrorIs(t, err, ErrNoExternalIdentity)
	require.Zero(t, store.selects)
}

func TestResolve_TotalFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("boom")}
	user := &models.User{ID: "42"}

	_, err := newResolver(store, &fakeSession{err: baas.ErrNoSession}).Resolve(context.Background(), user)
	require.ErrorIs(t, err, ErrNoExternalIdentity)
}

func TestResolve_MemoizedPerSession(t *testing.T) {
	store := &fakeStore{rows: []baas.Row{{"auth_user_id": uuidB}}}
	r := newResolver(store, &fakeSession{err: baas.ErrNoSession})
	user := &models.User{ID: "42"}

	first, err := r.Resolve(context.Background(), user)
	require.NoError(t, err)

	// Even a changed user record yields the cached mapping.
	second, err := r.Resolve(context.Background(), &models.User{ID: "7", SupabaseUserID: uuidA})
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, store.selects)

	r.Forget()
	third, err := r.Resolve(context.Background(), &models.User{ID: "7", SupabaseUserID: uuidA})
	require.NoError(t, err)
	require.Equal(t, uuidA, third)
}

func TestResolve_FailureIsNotCached(t *testing.T) {
	store := &fakeStore{}
	r := newResolver(store, &fakeSession{err: baas.ErrNoSession})

	_, err := r.Resolve(context.Background(), &models.User{ID: "42"})
	require.ErrorIs(t, err, ErrNoExternalIdentity)

	id, err := r.Resolve(context.Background(), &models.User{ID: "42", SupabaseUserID: uuidA})
	require.NoError(t, err)
	require.Equal(t, uuidA, id)
}
